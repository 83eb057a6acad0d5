package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/broker"
	"github.com/meinhoongagan/bizmatch/config"
	"github.com/meinhoongagan/bizmatch/controllers"
	"github.com/meinhoongagan/bizmatch/logger"
	"github.com/meinhoongagan/bizmatch/middleware"
	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/routes"
	"github.com/meinhoongagan/bizmatch/services"
	"github.com/meinhoongagan/bizmatch/sessions"
	"github.com/meinhoongagan/bizmatch/storage"
	"github.com/meinhoongagan/bizmatch/testutil"
	"github.com/meinhoongagan/bizmatch/utils"
	"gorm.io/gorm"
)

type testServer struct {
	app     *fiber.App
	db      *gorm.DB
	h       *controllers.Handler
	company *models.User
	buyer   *models.User
	admin   *models.User
}

func newServer(t *testing.T) *testServer {
	t.Helper()

	gdb := testutil.NewDB(t)
	uploads := t.TempDir()
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		SessionTTL:     time.Hour,
		BcryptCost:     4,
		UploadDir:      uploads,
		UploadMaxBytes: 10 << 20,
		CORSOrigins:    "*",
		EventLocation:  time.UTC,
	}

	local, err := storage.NewLocalStore(uploads)
	if err != nil {
		t.Fatal(err)
	}
	store := sessions.NewMemoryStore()
	log := logger.Discard()
	notifier := services.NewNotificationService(gdb, utils.NopMailer{}, broker.NopPublisher{}, log)
	t.Cleanup(notifier.Wait)

	h := &controllers.Handler{
		DB:            gdb,
		Config:        cfg,
		Log:           log,
		Sessions:      store,
		Storage:       local,
		Users:         services.NewUserService(gdb, cfg.BcryptCost, store),
		Events:        services.NewEventService(gdb),
		Slots:         services.NewTimeSlotService(gdb, time.UTC),
		Booking:       services.NewBookingService(gdb, notifier, time.UTC),
		Notifications: notifier,
	}

	return &testServer{
		app:     routes.NewApp(h),
		db:      gdb,
		h:       h,
		company: testutil.CreateUser(t, gdb, "acme", models.RoleCompany),
		buyer:   testutil.CreateUser(t, gdb, "cobalt", models.RoleBuyer),
		admin:   testutil.CreateUser(t, gdb, "root", models.RoleAdmin),
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func (s *testServer) login(t *testing.T, user *models.User) string {
	t.Helper()
	resp, body := s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": "secret",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login %s: %d %s", user.Email, resp.StatusCode, body)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Token == "" {
		t.Fatalf("login response %s: %v", body, err)
	}
	return out.Token
}

func (s *testServer) slot(t *testing.T, start time.Time) *models.TimeSlot {
	t.Helper()
	slot := &models.TimeSlot{UserID: s.company.ID, StartTime: start, EndTime: start.Add(30 * time.Minute)}
	if err := s.db.Create(slot).Error; err != nil {
		t.Fatal(err)
	}
	return slot
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var out utils.ErrorResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode error body %s: %v", body, err)
	}
	return out.Error
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	resp, body := s.do(t, fiber.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Fatalf("healthz = %d %s", resp.StatusCode, body)
	}
}

func TestRegisterTrimsEmail(t *testing.T) {
	s := newServer(t)
	resp, body := s.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Pad Traders",
		"email":    " Pad@Example.com ",
		"password": "password123",
		"role":     "BUYER",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register: %d %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"pad@example.com"`) {
		t.Errorf("body = %s", body)
	}

	resp, body = s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "  PAD@example.com",
		"password": "password123",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login: %d %s", resp.StatusCode, body)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s := newServer(t)
	resp, body := s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    s.buyer.Email,
		"password": "wrong",
	})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d %s", resp.StatusCode, body)
	}
	if code := errorCode(t, body); code != utils.CodeUnauthorized {
		t.Errorf("error = %q", code)
	}
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	s := newServer(t)

	resp, _ := s.do(t, fiber.MethodGet, "/api/auth/me", "", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("no token: status = %d", resp.StatusCode)
	}

	resp, _ = s.do(t, fiber.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d", resp.StatusCode)
	}

	// valid signature but no server-side session
	forged, err := middleware.IssueToken("test-secret", s.buyer.ID, "unknown-session", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	resp, _ = s.do(t, fiber.MethodGet, "/api/auth/me", forged, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("unknown session: status = %d", resp.StatusCode)
	}
}

func TestSessionCookieAuthenticates(t *testing.T) {
	s := newServer(t)
	token := s.login(t, s.buyer)

	req := httptest.NewRequest(fiber.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	resp, body := s.send(t, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d %s", resp.StatusCode, body)
	}

	var me models.User
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatal(err)
	}
	if me.ID != s.buyer.ID || me.Role != models.RoleBuyer {
		t.Errorf("me = %+v", me)
	}
	if strings.Contains(string(body), "password") {
		t.Error("profile leaks the password hash")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	s := newServer(t)
	token := s.login(t, s.buyer)

	resp, _ := s.do(t, fiber.MethodPost, "/api/auth/logout", token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}
	resp, _ = s.do(t, fiber.MethodGet, "/api/auth/me", token, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("token still valid after logout: %d", resp.StatusCode)
	}
}

func TestRoleGuardReturnsUnauthorized(t *testing.T) {
	s := newServer(t)
	buyer := s.login(t, s.buyer)
	company := s.login(t, s.company)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	payload := map[string]any{"startTime": start, "endTime": start.Add(30 * time.Minute)}

	resp, body := s.do(t, fiber.MethodPost, "/api/timeslots", buyer, payload)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("buyer creating slot: %d %s", resp.StatusCode, body)
	}
	resp, body = s.do(t, fiber.MethodGet, "/api/admin/users", company, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("company listing users: %d %s", resp.StatusCode, body)
	}
	resp, body = s.do(t, fiber.MethodPost, "/api/timeslots", company, payload)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("company creating slot: %d %s", resp.StatusCode, body)
	}
}

func TestUpdateEventValidation(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, s.admin)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"unpadded clock", map[string]any{"operationStartTime": "9:00"}, fiber.StatusBadRequest},
		{"short meeting", map[string]any{"meetingDuration": 10}, fiber.StatusBadRequest},
		{"long meeting", map[string]any{"meetingDuration": 121}, fiber.StatusBadRequest},
		{"create", map[string]any{
			"name":               "Spring Expo",
			"startDate":          "2026-03-10",
			"endDate":            "2026-03-11",
			"operationStartTime": "09:00",
			"operationEndTime":   "12:00",
			"meetingDuration":    30,
			"status":             "ACTIVE",
		}, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := s.do(t, fiber.MethodPatch, "/api/event", admin, tt.body)
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.want, body)
			}
		})
	}

	resp, body := s.do(t, fiber.MethodGet, "/api/event", "", nil)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(body), "Spring Expo") {
		t.Fatalf("public event read = %d %s", resp.StatusCode, body)
	}
}

func TestMeetingRequestAndReject(t *testing.T) {
	s := newServer(t)
	buyer := s.login(t, s.buyer)
	company := s.login(t, s.company)
	slot := s.slot(t, time.Now().UTC().Add(24*time.Hour).Truncate(time.Minute))

	resp, body := s.do(t, fiber.MethodPost, "/api/meetings", buyer, map[string]any{
		"timeSlotId": slot.ID,
		"message":    "Let's talk logistics",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("request meeting: %d %s", resp.StatusCode, body)
	}
	var meeting models.Meeting
	if err := json.Unmarshal(body, &meeting); err != nil {
		t.Fatal(err)
	}
	if meeting.Status != models.MeetingPending || meeting.CompanyID != s.company.ID {
		t.Fatalf("meeting = %+v", meeting)
	}

	// the slot is no longer offered
	resp, body = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/timeslots?companyId=%d", s.company.ID), company, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list slots: %d %s", resp.StatusCode, body)
	}
	var slots []models.TimeSlot
	if err := json.Unmarshal(body, &slots); err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 || !slots[0].IsBooked || slots[0].Status != models.SlotHeld {
		t.Fatalf("slots = %+v", slots)
	}

	// a second request on the same slot conflicts
	other := testutil.CreateUser(t, s.db, "delta", models.RoleBuyer)
	resp, body = s.do(t, fiber.MethodPost, "/api/meetings", s.login(t, other), map[string]any{"timeSlotId": slot.ID})
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("double booking: %d %s", resp.StatusCode, body)
	}

	// buyers cannot resolve
	path := fmt.Sprintf("/api/meetings/%d", meeting.ID)
	resp, _ = s.do(t, fiber.MethodPatch, path, buyer, map[string]string{"status": "CONFIRMED"})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("buyer resolving: %d", resp.StatusCode)
	}

	resp, body = s.do(t, fiber.MethodPatch, path, company, map[string]string{"status": "REJECTED"})
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(body), `"REJECTED"`) {
		t.Fatalf("reject: %d %s", resp.StatusCode, body)
	}

	var reopened models.TimeSlot
	if err := s.db.First(&reopened, slot.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reopened.Status != models.SlotOpen || reopened.IsBooked {
		t.Errorf("slot after reject = %s", reopened.Status)
	}

	resp, body = s.do(t, fiber.MethodGet, "/api/notifications?unread=true", buyer, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("notifications: %d %s", resp.StatusCode, body)
	}
	var inbox []models.Notification
	if err := json.Unmarshal(body, &inbox); err != nil {
		t.Fatal(err)
	}
	if len(inbox) == 0 || inbox[0].Type != models.NotificationMeetingRejected {
		t.Errorf("buyer inbox = %+v", inbox)
	}

	// resolving twice is a conflict
	resp, _ = s.do(t, fiber.MethodPatch, path, company, map[string]string{"status": "CONFIRMED"})
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("second resolve: %d", resp.StatusCode)
	}
}

func multipartFile(t *testing.T, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func (s *testServer) upload(t *testing.T, token, name string, data []byte) (*http.Response, []byte) {
	t.Helper()
	body, contentType := multipartFile(t, name, data)
	req := httptest.NewRequest(fiber.MethodPost, "/api/upload/header", body)
	req.Header.Set(fiber.HeaderContentType, contentType)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return s.send(t, req)
}

func TestUploadHeader(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, s.admin)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

	resp, body := s.upload(t, admin, "header.png", png)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("upload without event: %d %s", resp.StatusCode, body)
	}

	name := "Expo"
	start, end := "2026-03-10", "2026-03-11"
	if _, err := s.h.Events.Update(context.Background(), services.UpdateEventInput{Name: &name, StartDate: &start, EndDate: &end}); err != nil {
		t.Fatal(err)
	}

	resp, body = s.upload(t, admin, "notes.png", []byte("plain text pretending to be a picture"))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("non-image upload: %d %s", resp.StatusCode, body)
	}

	resp, body = s.upload(t, admin, "header.png", png)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("upload: %d %s", resp.StatusCode, body)
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.URL, storage.PublicPrefix+"/") || !strings.HasSuffix(out.URL, ".png") {
		t.Fatalf("url = %q", out.URL)
	}
	stored := filepath.Join(s.h.Config.UploadDir, strings.TrimPrefix(out.URL, storage.PublicPrefix+"/"))
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("stored file: %v", err)
	}

	resp, _ = s.do(t, fiber.MethodDelete, "/api/upload/header", admin, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete header: %d", resp.StatusCode)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Errorf("header file still present: %v", err)
	}
}

type failingDeleteStore struct {
	storage.Store
	deleted []string
}

func (f *failingDeleteStore) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return errors.New("bucket unavailable")
}

func TestUploadHeaderCleansUpWhenEventUpdateFails(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, s.admin)

	name := "Expo"
	start, end := "2026-03-10", "2026-03-11"
	if _, err := s.h.Events.Update(context.Background(), services.UpdateEventInput{Name: &name, StartDate: &start, EndDate: &end}); err != nil {
		t.Fatal(err)
	}

	store := &failingDeleteStore{Store: s.h.Storage}
	var logs bytes.Buffer
	s.h.Storage = store
	s.h.Log = logger.New(logger.Config{Output: &logs, Format: logger.JSON})

	err := s.db.Callback().Update().Before("gorm:update").Register("test:fail_event_update", func(db *gorm.DB) {
		if db.Statement.Table == "events" {
			_ = db.AddError(errors.New("disk full"))
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	resp, body := s.upload(t, admin, "header.png", png)
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d %s", resp.StatusCode, body)
	}
	if len(store.deleted) != 1 || !strings.HasPrefix(store.deleted[0], storage.PublicPrefix+"/") {
		t.Fatalf("deleted = %v", store.deleted)
	}
	if !strings.Contains(logs.String(), "Failed to remove stored header image") {
		t.Errorf("cleanup failure not logged: %s", logs.String())
	}
}

func TestResetDataRevokesRemovedUsers(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, s.admin)
	buyer := s.login(t, s.buyer)

	resp, body := s.do(t, fiber.MethodPost, "/api/admin/reset-data", admin, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("reset: %d %s", resp.StatusCode, body)
	}

	resp, _ = s.do(t, fiber.MethodGet, "/api/auth/me", buyer, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("removed buyer still signed in: %d", resp.StatusCode)
	}
	resp, _ = s.do(t, fiber.MethodGet, "/api/auth/me", admin, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("admin lost session: %d", resp.StatusCode)
	}

	resp, body = s.do(t, fiber.MethodGet, "/api/companies", admin, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("companies: %d %s", resp.StatusCode, body)
	}
	var companies []models.User
	if err := json.Unmarshal(body, &companies); err != nil {
		t.Fatal(err)
	}
	if len(companies) == 0 {
		t.Error("expected seeded companies after reset")
	}
}
