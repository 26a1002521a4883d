package handler

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paigong/paigong/internal/auth"
	"github.com/paigong/paigong/internal/config"
	"github.com/paigong/paigong/internal/repository"
	"github.com/paigong/paigong/pkg/attendance"
	"github.com/paigong/paigong/pkg/model"
	"github.com/paigong/paigong/pkg/payroll"
	"github.com/paigong/paigong/pkg/scheduler"
)

func testScheduleHandler() (*ScheduleHandler, *repository.MemoryScheduleStore) {
	store := repository.NewMemoryScheduleStore()
	engine := scheduler.New(scheduler.Options{Rand: rand.New(rand.NewSource(0))})
	return NewScheduleHandler(engine, store, nil), store
}

func generateBody(storeID string) GenerateRequest {
	staff := []string{"s1", "s2"}
	avail := make(model.Availability)
	var reqs []RequirementInput
	for _, date := range model.WeekDates("2026-01-05") {
		reqs = append(reqs, RequirementInput{Date: date, ShiftID: "morning", Required: 1})
		for _, id := range staff {
			avail.Set(id, date, "morning", true)
		}
	}
	return GenerateRequest{
		StoreID:   storeID,
		WeekStart: "2026-01-05",
		StaffIDs:  staff,
		Shifts: []ShiftInput{
			{ID: "morning", Name: "早班", StartTime: "08:00", EndTime: "16:00"},
		},
		Requirements: reqs,
		Availability: avail,
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestScheduleGenerate(t *testing.T) {
	h, store := testScheduleHandler()
	storeID := uuid.New().String()

	w := postJSON(t, h.Generate, "/api/v1/schedule/generate", generateBody(storeID))
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, body: %s", w.Code, w.Body.String())
	}

	var resp GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Stats.CoveragePercent != 100 {
		t.Errorf("Coverage = %v, want 100", resp.Stats.CoveragePercent)
	}
	if resp.WeekStart != "2026-01-05" {
		t.Errorf("WeekStart = %s, want 2026-01-05", resp.WeekStart)
	}

	// 生成结果已持久化
	saved, err := store.GetByWeek(httptest.NewRequest("GET", "/", nil).Context(),
		uuid.MustParse(storeID), "2026-01-05")
	if err != nil {
		t.Fatalf("Schedule not persisted: %v", err)
	}
	if saved.Stats.AssignedSlots != 7 {
		t.Errorf("Persisted AssignedSlots = %d, want 7", saved.Stats.AssignedSlots)
	}
}

func TestScheduleGenerateNormalizesWeekStart(t *testing.T) {
	h, _ := testScheduleHandler()
	body := generateBody(uuid.New().String())
	body.WeekStart = "2026-01-07" // 周三，应归一到周一

	w := postJSON(t, h.Generate, "/api/v1/schedule/generate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp GenerateResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.WeekStart != "2026-01-05" {
		t.Errorf("WeekStart = %s, want normalized 2026-01-05", resp.WeekStart)
	}
}

func TestScheduleGenerateValidation(t *testing.T) {
	h, _ := testScheduleHandler()

	body := generateBody(uuid.New().String())
	body.StaffIDs = nil

	w := postJSON(t, h.Generate, "/api/v1/schedule/generate", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Missing staff should be 400, got %d", w.Code)
	}
}

func TestScheduleGenerateUnknownShift(t *testing.T) {
	h, _ := testScheduleHandler()

	body := generateBody(uuid.New().String())
	body.Requirements[0].ShiftID = "ghost"

	w := postJSON(t, h.Generate, "/api/v1/schedule/generate", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Unknown shift template should be 400, got %d", w.Code)
	}
}

func TestScheduleGenerateRejectsGet(t *testing.T) {
	h, _ := testScheduleHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/generate", nil)
	w := httptest.NewRecorder()
	h.Generate(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("GET should be rejected, got %d", w.Code)
	}
}

func TestQueryEndpointsRejectPost(t *testing.T) {
	h, _ := testScheduleHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/week", nil)
	w := httptest.NewRecorder()
	h.GetByWeek(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("POST to week query should be rejected, got %d", w.Code)
	}

	share := NewShareLinkHandler(repository.NewMemoryScheduleStore(), repository.NewMemoryShareLinkStore(), 0)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/share/nothere1", nil)
	w = httptest.NewRecorder()
	share.Resolve(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("POST to share resolve should be rejected, got %d", w.Code)
	}
}

func TestShareLinkLifecycle(t *testing.T) {
	scheduleHandler, store := testScheduleHandler()
	storeID := uuid.New().String()

	w := postJSON(t, scheduleHandler.Generate, "/api/v1/schedule/generate", generateBody(storeID))
	if w.Code != http.StatusOK {
		t.Fatalf("Generate failed: %s", w.Body.String())
	}
	var genResp GenerateResponse
	json.Unmarshal(w.Body.Bytes(), &genResp)

	shareHandler := NewShareLinkHandler(store, repository.NewMemoryShareLinkStore(), 14*24*time.Hour)

	w = postJSON(t, shareHandler.Create, "/api/v1/share",
		CreateShareRequest{ScheduleID: genResp.ScheduleID})
	if w.Code != http.StatusOK {
		t.Fatalf("Create share failed: %s", w.Body.String())
	}
	var shareResp CreateShareResponse
	json.Unmarshal(w.Body.Bytes(), &shareResp)
	if len(shareResp.Code) != 8 {
		t.Errorf("Share code length = %d, want 8", len(shareResp.Code))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/share/"+shareResp.Code, nil)
	rec := httptest.NewRecorder()
	shareHandler.Resolve(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Resolve failed: %s", rec.Body.String())
	}

	var snapshot repository.Schedule
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.WeekStart != "2026-01-05" {
		t.Errorf("Snapshot WeekStart = %s", snapshot.WeekStart)
	}
}

func TestShareLinkUnknownCode(t *testing.T) {
	store := repository.NewMemoryScheduleStore()
	h := NewShareLinkHandler(store, repository.NewMemoryShareLinkStore(), 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/share/nothere1", nil)
	rec := httptest.NewRecorder()
	h.Resolve(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Unknown code should be 404, got %d", rec.Code)
	}
}

func TestAttendanceCheckIn(t *testing.T) {
	h := NewAttendanceHandler(&attendance.Verifier{MaxDistanceMeters: 200})

	body := CheckInRequest{
		StaffID:   "s1",
		Location:  model.Location{Latitude: 31.2304, Longitude: 121.4737},
		Store:     model.Location{Latitude: 31.2304, Longitude: 121.4737},
		Timestamp: time.Date(2026, 1, 5, 8, 55, 0, 0, time.UTC),
	}
	body.Shift.Date = "2026-01-05"
	body.Shift.ShiftID = "morning"
	body.Shift.StartTime = "09:00"
	body.Shift.EndTime = "17:00"

	w := postJSON(t, h.CheckIn, "/api/v1/attendance/checkin", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Check-in failed: %s", w.Body.String())
	}

	// 同一班次重复打卡
	w = postJSON(t, h.CheckIn, "/api/v1/attendance/checkin", body)
	if w.Code != http.StatusConflict {
		t.Errorf("Duplicate check-in should be 409, got %d", w.Code)
	}
}

func TestAttendanceCheckInOutOfRange(t *testing.T) {
	h := NewAttendanceHandler(&attendance.Verifier{MaxDistanceMeters: 100})

	body := CheckInRequest{
		StaffID:  "s1",
		Location: model.Location{Latitude: 31.30, Longitude: 121.4737},
		Store:    model.Location{Latitude: 31.2304, Longitude: 121.4737},
	}
	body.Shift.Date = "2026-01-05"
	body.Shift.ShiftID = "morning"
	body.Shift.StartTime = "09:00"
	body.Shift.EndTime = "17:00"

	w := postJSON(t, h.CheckIn, "/api/v1/attendance/checkin", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Out-of-range check-in should be 422, got %d", w.Code)
	}

	var result attendance.CheckInResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Accepted {
		t.Error("Result should not be accepted")
	}
}

func TestPayrollSummarize(t *testing.T) {
	h := NewPayrollHandler(&payroll.Calculator{})

	body := PayrollRequest{
		HourlyRate: 30,
		Shifts: []ShiftInput{
			{ID: "morning", Name: "早班", StartTime: "09:00", EndTime: "17:00"},
		},
		Entries: []payroll.TimesheetEntry{
			{
				StaffID: "s1", Date: "2026-01-05", ShiftID: "morning",
				CheckIn:  time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
				CheckOut: time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC),
			},
		},
	}

	w := postJSON(t, h.Summarize, "/api/v1/payroll/summarize", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Summarize failed: %s", w.Body.String())
	}

	var resp PayrollResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Summaries) != 1 || resp.Summaries[0].TotalPay != 240 {
		t.Errorf("Unexpected summaries: %+v", resp.Summaries)
	}
}

func TestLogin(t *testing.T) {
	staffStore := repository.NewMemoryStaffStore()
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	staff := &repository.Staff{
		StoreID:      uuid.New(),
		Name:         "张三",
		Phone:        "13800000001",
		PasswordHash: hash,
		Active:       true,
	}
	if err := staffStore.Create(httptest.NewRequest("GET", "/", nil).Context(), staff); err != nil {
		t.Fatalf("Create staff failed: %v", err)
	}

	tokens := auth.NewManager(&config.JWTConfig{Secret: "test", Issuer: "paigong", TTL: time.Hour})
	h := NewAuthHandler(staffStore, tokens)

	w := postJSON(t, h.Login, "/api/v1/auth/login",
		LoginRequest{Phone: "13800000001", Password: "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed: %s", w.Body.String())
	}
	var resp LoginResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Error("Token missing in response")
	}
	claims, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("Issued token invalid: %v", err)
	}
	if claims.StaffID != staff.ID.String() {
		t.Errorf("Claims StaffID = %s, want %s", claims.StaffID, staff.ID)
	}

	w = postJSON(t, h.Login, "/api/v1/auth/login",
		LoginRequest{Phone: "13800000001", Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Wrong password should be 401, got %d", w.Code)
	}
}
