package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"time"

	"milgapo/scholarship-matcher/internal/models"
	"milgapo/scholarship-matcher/internal/repositories"
)

const digestJobName = "scholarships_digest"

// Skip reasons reported by RunDaily.
const (
	SkipBeforeWindow = "before_window"
	SkipAlreadyRan   = "already_ran"
	SkipDataError    = "data_error"
)

// DigestService resolves which scholarships are open today and sends the
// daily digest through the Make webhook.
type DigestService interface {
	OpenScholarships(ctx context.Context, today time.Time) ([]models.OpenScholarship, error)
	BuildMessage(openItems []models.OpenScholarship, user *models.User, isTest bool) (string, string)
	RunDaily(ctx context.Context, force, isTest bool) (*models.DigestRunResult, error)
}

type digestService struct {
	notion     NotionService
	makeSvc    MakeService
	jobRunRepo repositories.JobRunRepository
	userRepo   repositories.UserRepository
	location   *time.Location
	runHour    int
	adminEmail string
}

func NewDigestService(
	notion NotionService,
	makeSvc MakeService,
	jobRunRepo repositories.JobRunRepository,
	userRepo repositories.UserRepository,
	timeZone string,
	runHour int,
	adminEmail string,
) DigestService {
	location, err := time.LoadLocation(timeZone)
	if err != nil {
		log.Printf("⚠️  Unknown digest timezone %q, falling back to UTC\n", timeZone)
		location = time.UTC
	}
	if adminEmail == "" {
		log.Println("⚠️  ADMIN_EMAIL is not set; admin notifications will be skipped")
	}

	return &digestService{
		notion:     notion,
		makeSvc:    makeSvc,
		jobRunRepo: jobRunRepo,
		userRepo:   userRepo,
		location:   location,
		runHour:    runHour,
		adminEmail: adminEmail,
	}
}

// OpenScholarships implements DigestService. A record is open only when both
// window endpoints resolve and today falls between them; records without a
// parseable window are excluded.
func (d *digestService) OpenScholarships(ctx context.Context, today time.Time) ([]models.OpenScholarship, error) {
	catalog, err := d.notion.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var openItems []models.OpenScholarship
	for _, record := range catalog {
		openDate := extractFieldDate(record.Fields, openFieldNames, pickStart)
		closeDate := extractFieldDate(record.Fields, closeFieldNames, pickEnd)
		if openDate == nil || closeDate == nil {
			continue
		}
		if !withinWindow(day, *openDate, *closeDate) {
			continue
		}
		openItems = append(openItems, models.OpenScholarship{
			ID:        record.ID,
			Title:     record.Title,
			URL:       record.URL,
			Summary:   findFieldValue(record.Fields, summaryFieldNames),
			OpenDate:  *openDate,
			CloseDate: *closeDate,
		})
	}
	return openItems, nil
}

func formatDigestDate(value time.Time) string {
	if value.IsZero() {
		return "לא זמין"
	}
	return value.Format("02/01/2006")
}

// BuildMessage implements DigestService: subject line plus an RTL HTML body,
// with separate branches for "has open items" and "none", an optional
// recipient greeting and a test-mode banner.
func (d *digestService) BuildMessage(openItems []models.OpenScholarship, user *models.User, isTest bool) (string, string) {
	hasItems := len(openItems) > 0

	subject := "עדכון יומי: מלגות פתוחות"
	if !hasItems {
		subject = "עדכון יומי: אין מלגות פתוחות"
	}
	if isTest {
		subject = "[TEST] " + subject
	}

	greeting := ""
	if user != nil && user.FirstName != "" {
		greeting = fmt.Sprintf("<p style=\"margin: 0 0 12px;\">היי %s,</p>", html.EscapeString(user.FirstName))
	}

	testBanner := ""
	if isTest {
		testBanner = "<div style=\"background:#fee2e2;color:#991b1b;" +
			"padding:8px 12px;border-radius:10px;font-size:12px;margin-bottom:12px;\">" +
			"בדיקת מערכת</div>"
	}

	var bodyHTML string
	if hasItems {
		cards := ""
		for _, item := range openItems {
			title := item.Title
			if title == "" {
				title = "מלגה"
			}
			summary := item.Summary
			if summary == "" {
				summary = "אין תיאור זמין"
			}
			link := item.URL
			if link == "" {
				link = "#"
			}
			cards += "<div style=\"border:1px solid #e2e8f0;border-radius:14px;" +
				"padding:16px;margin-bottom:12px;\">" +
				fmt.Sprintf("<div style=\"font-size:16px;font-weight:700;color:#0f172a;\">%s</div>", html.EscapeString(title)) +
				fmt.Sprintf("<div style=\"color:#475569;margin:6px 0 10px;\">%s</div>", html.EscapeString(summary)) +
				fmt.Sprintf("<div style=\"font-size:13px;color:#334155;\">נפתח ב: %s</div>", formatDigestDate(item.OpenDate)) +
				fmt.Sprintf("<div style=\"font-size:13px;color:#334155;\">נסגר ב: %s</div>", formatDigestDate(item.CloseDate)) +
				fmt.Sprintf("<a href=\"%s\" ", html.EscapeString(link)) +
				"style=\"display:inline-block;margin-top:12px;padding:10px 16px;" +
				"background:#14b8a6;color:#ffffff;text-decoration:none;border-radius:999px;" +
				"font-weight:600;\">להגשה עכשיו</a>" +
				"</div>"
		}
		bodyHTML = "<h2 style=\"margin:0 0 8px;color:#0f172a;\">" +
			"מצאנו עבורך מלגות פתוחות היום!</h2>" +
			"<p style=\"margin:0 0 16px;color:#334155;\">" +
			"אל תפספס/י — הזדמנות מעולה מחכה לך. כדאי להגיש עכשיו.</p>" +
			cards
	} else {
		bodyHTML = "<h2 style=\"margin:0 0 8px;color:#0f172a;\">" +
			"אין מלגות פתוחות היום</h2>" +
			"<p style=\"margin:0;color:#334155;\">" +
			"נמשיך לבדוק עבורך ונעדכן מחר.</p>"
	}

	digestHTML := "<div style=\"font-family: Assistant, Arial, sans-serif; direction: rtl;" +
		"background-color:#f8fafc;padding:24px;\">" +
		"<div style=\"max-width:640px;margin:0 auto;background:#ffffff;" +
		"border-radius:18px;padding:24px;border:1px solid #e2e8f0;\">" +
		testBanner +
		greeting +
		bodyHTML +
		"</div></div>"

	return subject, digestHTML
}

func (d *digestService) shouldRunNow(nowLocal time.Time) bool {
	return nowLocal.Hour() >= d.runHour
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// RunDaily implements DigestService. Outside a forced run the digest fires at
// most once per local calendar day, and only after the configured hour. With
// open items the digest goes to every interested user; with none, a heads-up
// goes to the admin. Test mode always routes to the admin address only and
// does not consume the daily slot.
func (d *digestService) RunDaily(ctx context.Context, force, isTest bool) (*models.DigestRunResult, error) {
	nowLocal := time.Now().In(d.location)
	if !force && !d.shouldRunNow(nowLocal) {
		return &models.DigestRunResult{Skipped: true, Reason: SkipBeforeWindow}, nil
	}

	jobRun, err := d.jobRunRepo.Find(digestJobName)
	if err != nil {
		return nil, err
	}
	if !force && jobRun != nil && jobRun.LastRunDate != nil && sameDate(*jobRun.LastRunDate, nowLocal) {
		return &models.DigestRunResult{Skipped: true, Reason: SkipAlreadyRan}, nil
	}

	openItems, err := d.OpenScholarships(ctx, nowLocal)
	if err != nil {
		log.Printf("❌ Digest skipped: %v\n", err)
		return &models.DigestRunResult{Skipped: true, Reason: SkipDataError}, nil
	}

	if len(openItems) == 0 {
		d.notifyAdmin(ctx, openItems, isTest)
	} else if isTest {
		d.notifyAdmin(ctx, openItems, true)
	} else {
		users, err := d.userRepo.FindInterested(models.InterestedStatuses)
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			log.Println("ℹ️  Digest: no interested users")
		}
		for i := range users {
			user := users[i]
			subject, digestHTML := d.BuildMessage(openItems, &user, false)
			payload, err := d.makeSvc.BuildPayload(user.Email, EventDailyDigest, digestHTML, subject, false)
			if err != nil {
				log.Printf("❌ Digest payload for %s failed: %v\n", user.Email, err)
				continue
			}
			d.makeSvc.Notify(ctx, payload)
		}
	}

	if !isTest {
		if err := d.jobRunRepo.MarkRun(digestJobName, nowLocal); err != nil {
			return nil, err
		}
	}
	return &models.DigestRunResult{Skipped: false, OpenCount: len(openItems)}, nil
}

func (d *digestService) notifyAdmin(ctx context.Context, openItems []models.OpenScholarship, isTest bool) {
	if d.adminEmail == "" {
		log.Println("⚠️  Skipping admin digest email because ADMIN_EMAIL is missing")
		return
	}
	subject, digestHTML := d.BuildMessage(openItems, nil, isTest)
	payload, err := d.makeSvc.BuildPayload(d.adminEmail, EventDailyDigest, digestHTML, subject, isTest)
	if err != nil {
		log.Printf("❌ Admin digest payload failed: %v\n", err)
		return
	}
	d.makeSvc.Notify(ctx, payload)
}
