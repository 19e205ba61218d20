package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"milgapo/scholarship-matcher/internal/models"
)

type fakeMakeService struct {
	sent []*MakePayload
}

func (f *fakeMakeService) BuildPayload(email, eventTitle, htmlBody, subject string, isTest bool) (*MakePayload, error) {
	return &MakePayload{
		Email:      email,
		EventTitle: eventTitle,
		IsTest:     isTest,
		Subject:    subject,
		HTML:       htmlBody,
	}, nil
}

func (f *fakeMakeService) Notify(ctx context.Context, payload *MakePayload) {
	f.sent = append(f.sent, payload)
}

type fakeJobRunRepo struct {
	run    *models.DailyJobRun
	marked []time.Time
}

func (f *fakeJobRunRepo) Find(jobName string) (*models.DailyJobRun, error) {
	return f.run, nil
}

func (f *fakeJobRunRepo) MarkRun(jobName string, runDate time.Time) error {
	f.marked = append(f.marked, runDate)
	return nil
}

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) FindInterested(statuses []models.ScholarshipStatus) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) UpdateProfileImage(id uuid.UUID, imagePath string) error {
	return nil
}

func newTestDigest(notion NotionService, makeSvc *fakeMakeService, jobRuns *fakeJobRunRepo, users *fakeUserRepo, runHour int) DigestService {
	return NewDigestService(notion, makeSvc, jobRuns, users, "Asia/Jerusalem", runHour, "admin@example.org")
}

func openRecord(id string, open, close string) models.CatalogRecord {
	return models.CatalogRecord{
		ID:    id,
		Title: "מלגת " + id,
		URL:   "https://example.org/" + id,
		Fields: []models.CatalogField{
			{Name: "תאריך פתיחה", Value: open},
			{Name: "מועד אחרון להגשה", Value: close},
			{Name: "תיאור", Value: "תיאור קצר"},
		},
	}
}

func TestBuildMessageWithOpenItems(t *testing.T) {
	digest := newTestDigest(&fakeNotionService{}, &fakeMakeService{}, &fakeJobRunRepo{}, &fakeUserRepo{}, 16)

	items := []models.OpenScholarship{{
		Title:     "מלגת הצטיינות",
		URL:       "https://example.org/apply",
		Summary:   "מלגה לסטודנטים",
		OpenDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CloseDate: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}}
	user := &models.User{FirstName: "דנה"}

	subject, body := digest.BuildMessage(items, user, false)
	if subject != "עדכון יומי: מלגות פתוחות" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, part := range []string{"מלגת הצטיינות", "מלגה לסטודנטים", "היי דנה", "31/03/2024", "direction: rtl"} {
		if !strings.Contains(body, part) {
			t.Fatalf("body missing %q", part)
		}
	}
	if strings.Contains(body, "בדיקת מערכת") {
		t.Fatalf("test banner must not appear outside test mode")
	}
}

func TestBuildMessageNoOpenItems(t *testing.T) {
	digest := newTestDigest(&fakeNotionService{}, &fakeMakeService{}, &fakeJobRunRepo{}, &fakeUserRepo{}, 16)

	subject, body := digest.BuildMessage(nil, nil, false)
	if subject != "עדכון יומי: אין מלגות פתוחות" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "אין מלגות פתוחות היום") {
		t.Fatalf("empty-day body missing headline")
	}
	if strings.Contains(body, "היי") {
		t.Fatalf("no greeting expected without a recipient")
	}
}

func TestBuildMessageTestMode(t *testing.T) {
	digest := newTestDigest(&fakeNotionService{}, &fakeMakeService{}, &fakeJobRunRepo{}, &fakeUserRepo{}, 16)

	subject, body := digest.BuildMessage(nil, nil, true)
	if !strings.HasPrefix(subject, "[TEST] ") {
		t.Fatalf("test subject must carry the prefix, got %q", subject)
	}
	if !strings.Contains(body, "בדיקת מערכת") {
		t.Fatalf("test banner missing from body")
	}
}

func TestOpenScholarshipsWindow(t *testing.T) {
	notion := &fakeNotionService{records: []models.CatalogRecord{
		openRecord("in-window", "2024-01-01", "2024-03-31"),
		openRecord("closed", "2023-01-01", "2023-03-31"),
		{
			// Only a deadline: without an opening date the window cannot be
			// resolved, so the record is excluded.
			ID:     "no-open",
			Title:  "מלגה חלקית",
			Fields: []models.CatalogField{{Name: "מועד אחרון להגשה", Value: "2024-03-31"}},
		},
	}}
	digest := newTestDigest(notion, &fakeMakeService{}, &fakeJobRunRepo{}, &fakeUserRepo{}, 16)

	today := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)
	openItems, err := digest.OpenScholarships(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(openItems) != 1 || openItems[0].ID != "in-window" {
		t.Fatalf("expected only the in-window record, got %+v", openItems)
	}
	if openItems[0].Summary != "תיאור קצר" {
		t.Fatalf("unexpected summary %q", openItems[0].Summary)
	}
}

func TestRunDailySkipsBeforeWindow(t *testing.T) {
	jobRuns := &fakeJobRunRepo{}
	digest := newTestDigest(&fakeNotionService{}, &fakeMakeService{}, jobRuns, &fakeUserRepo{}, 25)

	result, err := digest.RunDaily(context.Background(), false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped || result.Reason != SkipBeforeWindow {
		t.Fatalf("expected before_window skip, got %+v", result)
	}
	if len(jobRuns.marked) != 0 {
		t.Fatalf("skipped run must not consume the daily slot")
	}
}

func TestRunDailySkipsWhenAlreadyRan(t *testing.T) {
	location, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	today := time.Now().In(location)
	jobRuns := &fakeJobRunRepo{run: &models.DailyJobRun{JobName: digestJobName, LastRunDate: &today}}
	digest := newTestDigest(&fakeNotionService{}, &fakeMakeService{}, jobRuns, &fakeUserRepo{}, 0)

	result, err := digest.RunDaily(context.Background(), false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped || result.Reason != SkipAlreadyRan {
		t.Fatalf("expected already_ran skip, got %+v", result)
	}
}

func TestRunDailyDataErrorSkipsWithoutMarking(t *testing.T) {
	notion := &fakeNotionService{err: ErrCatalogUnavailable}
	makeSvc := &fakeMakeService{}
	jobRuns := &fakeJobRunRepo{}
	digest := newTestDigest(notion, makeSvc, jobRuns, &fakeUserRepo{}, 16)

	result, err := digest.RunDaily(context.Background(), true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped || result.Reason != SkipDataError {
		t.Fatalf("expected data_error skip, got %+v", result)
	}
	if len(makeSvc.sent) != 0 {
		t.Fatalf("nothing must be sent on a data error")
	}
	if len(jobRuns.marked) != 0 {
		t.Fatalf("a failed run must not consume the daily slot")
	}
}

func TestRunDailyEmptyDayNotifiesAdmin(t *testing.T) {
	notion := &fakeNotionService{records: []models.CatalogRecord{
		openRecord("closed", "2023-01-01", "2023-03-31"),
	}}
	makeSvc := &fakeMakeService{}
	jobRuns := &fakeJobRunRepo{}
	digest := newTestDigest(notion, makeSvc, jobRuns, &fakeUserRepo{}, 16)

	result, err := digest.RunDaily(context.Background(), true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped || result.OpenCount != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(makeSvc.sent) != 1 || makeSvc.sent[0].Email != "admin@example.org" {
		t.Fatalf("expected a single admin notification, got %+v", makeSvc.sent)
	}
	if len(jobRuns.marked) != 1 {
		t.Fatalf("a completed run must consume the daily slot")
	}
}

func TestRunDailySendsToInterestedUsers(t *testing.T) {
	notion := &fakeNotionService{records: []models.CatalogRecord{
		openRecord("always-open", "2000-01-01", "2100-01-01"),
	}}
	makeSvc := &fakeMakeService{}
	jobRuns := &fakeJobRunRepo{}
	users := &fakeUserRepo{users: []models.User{
		{ID: uuid.New(), Email: "dana@example.org", FirstName: "דנה"},
		{ID: uuid.New(), Email: "noam@example.org", FirstName: "נועם"},
	}}
	digest := newTestDigest(notion, makeSvc, jobRuns, users, 16)

	result, err := digest.RunDaily(context.Background(), true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped || result.OpenCount != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(makeSvc.sent) != 2 {
		t.Fatalf("expected one payload per interested user, got %d", len(makeSvc.sent))
	}
	if makeSvc.sent[0].Email != "dana@example.org" || makeSvc.sent[1].Email != "noam@example.org" {
		t.Fatalf("unexpected recipients: %+v", makeSvc.sent)
	}
	if !strings.Contains(makeSvc.sent[0].HTML, "היי דנה") {
		t.Fatalf("digest body must greet its recipient")
	}
	if len(jobRuns.marked) != 1 {
		t.Fatalf("a completed run must consume the daily slot")
	}
}

func TestRunDailyTestModeRoutesToAdminOnly(t *testing.T) {
	notion := &fakeNotionService{records: []models.CatalogRecord{
		openRecord("always-open", "2000-01-01", "2100-01-01"),
	}}
	makeSvc := &fakeMakeService{}
	jobRuns := &fakeJobRunRepo{}
	users := &fakeUserRepo{users: []models.User{{ID: uuid.New(), Email: "dana@example.org"}}}
	digest := newTestDigest(notion, makeSvc, jobRuns, users, 16)

	result, err := digest.RunDaily(context.Background(), true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped {
		t.Fatalf("forced test run must not skip: %+v", result)
	}
	if len(makeSvc.sent) != 1 || makeSvc.sent[0].Email != "admin@example.org" {
		t.Fatalf("test mode must route to the admin only, got %+v", makeSvc.sent)
	}
	if !makeSvc.sent[0].IsTest {
		t.Fatalf("test payload must be flagged as test")
	}
	if len(jobRuns.marked) != 0 {
		t.Fatalf("a test run must not consume the daily slot")
	}
}
