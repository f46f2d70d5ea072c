// Package reports computes the admin dashboard: summary counts, per-question
// option tallies and a paginated, newest-first submission listing. It only
// reads; every mutation lives elsewhere.
package reports

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/rcamargo/likert-server/models"
)

// ErrAggregationFailed covers any store fault during a dashboard
// computation. Absence of matching data is not a fault: unknown form ids
// simply produce zero counts and empty lists.
var ErrAggregationFailed = errors.New("aggregation failed")

const DefaultPageSize = 10

// Filter scopes a dashboard or submissions query. A nil FormID aggregates
// across all forms. The date range restricts the submission listing and its
// total only; a date-only end bound is inclusive of that whole day.
type Filter struct {
	FormID    *uint
	Page      int
	PageSize  int
	StartDate *time.Time
	EndDate   *time.Time
}

func (f Filter) normalized() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	return f
}

type OptionStat struct {
	OptionID   uint   `json:"option_id"`
	Value      string `json:"value"`
	Label      string `json:"label"`
	Count      int64  `json:"count"`
	Percentage string `json:"percentage"` // one decimal, e.g. "100.0"
}

type QuestionStat struct {
	QuestionID uint         `json:"question_id"`
	Text       string       `json:"text"`
	Options    []OptionStat `json:"options"`
}

// Submission is one answer row shaped for display. User and Email are nil
// when the respondent's account was deleted after answering.
type Submission struct {
	AnswerID  uint    `json:"id"`
	User      *string `json:"user"`
	Email     *string `json:"email"`
	FormTitle string  `json:"form_title"`
	Date      string  `json:"date"` // 2006-01-02, UTC
	Time      string  `json:"time"` // 15:04:05, UTC
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
}

type Pagination struct {
	Current  int   `json:"current"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

type Dashboard struct {
	TotalUsers        int64          `json:"total_users"`
	TotalQuestions    int64          `json:"total_questions"`
	TotalAnswers      int64          `json:"total_answers"`
	UniqueRespondents int64          `json:"unique_respondents"`
	QuestionStats     []QuestionStat `json:"question_stats"`
	RecentSubmissions []Submission   `json:"recent_submissions"`
	Pagination        Pagination     `json:"pagination"`
}

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Dashboard runs the summary counts, the per-question tallies and the
// submission page as independent queries under one errgroup: they are all
// read-only and commute, so only the final assembly waits on all of them.
// Any store fault cancels the rest and fails the whole call; there are no
// partial results.
func (s *Service) Dashboard(ctx context.Context, f Filter) (*Dashboard, error) {
	f = f.normalized()

	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// user count stays global regardless of the form filter
		return s.db.WithContext(ctx).Model(&models.User{}).Count(&d.TotalUsers).Error
	})
	g.Go(func() error {
		// question count is also global, scoped to live rows
		return s.db.WithContext(ctx).Model(&models.Question{}).
			Scopes(models.Live).Count(&d.TotalQuestions).Error
	})
	g.Go(func() error {
		return s.answerFilter(ctx, f, false).Count(&d.TotalAnswers).Error
	})
	g.Go(func() error {
		return s.answerFilter(ctx, f, false).
			Distinct("user_id").Count(&d.UniqueRespondents).Error
	})
	g.Go(func() error {
		var err error
		d.QuestionStats, err = s.questionStats(ctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		d.RecentSubmissions, d.Pagination, err = s.submissionsPage(ctx, f)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregationFailed, err)
	}
	return &d, nil
}

// Submissions returns one page of answers with display detail, newest
// first, plus the total under the same predicates.
func (s *Service) Submissions(ctx context.Context, f Filter) ([]Submission, Pagination, error) {
	subs, page, err := s.submissionsPage(ctx, f.normalized())
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("%w: %v", ErrAggregationFailed, err)
	}
	return subs, page, nil
}

// answerFilter builds the shared predicate over live answers. The counting
// variants skip the date range: only the submission listing is date-bound.
func (s *Service) answerFilter(ctx context.Context, f Filter, withDates bool) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Answer{}).
		Where("answers.state = ?", models.StateLive)
	if f.FormID != nil {
		q = q.Where("answers.form_id = ?", *f.FormID)
	}
	if withDates {
		if f.StartDate != nil {
			q = q.Where("answers.created_at >= ?", *f.StartDate)
		}
		if f.EndDate != nil {
			end := *f.EndDate
			if end.Equal(end.Truncate(24 * time.Hour)) {
				// date-only bound: include the whole day
				q = q.Where("answers.created_at < ?", end.Add(24*time.Hour))
			} else {
				q = q.Where("answers.created_at <= ?", end)
			}
		}
	}
	return q
}

type statRow struct {
	QuestionID uint
	Text       string
	OptionID   uint
	Value      string
	Label      string
	Count      int64
}

func (s *Service) questionStats(ctx context.Context, f Filter) ([]QuestionStat, error) {
	var rows []statRow
	err := s.answerFilter(ctx, f, false).
		Select(`answers.question_id, questions.text,
			answers.answer_option_id AS option_id,
			answer_options.value, answer_options.label,
			COUNT(*) AS count`).
		Joins("JOIN questions ON questions.id = answers.question_id AND questions.state = ?", models.StateLive).
		Joins("JOIN answer_options ON answer_options.id = answers.answer_option_id AND answer_options.state = ?", models.StateLive).
		Group("answers.question_id, questions.text, answers.answer_option_id, answer_options.value, answer_options.label").
		Order("answers.question_id, answers.answer_option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// group rows per question, then derive each option's share of that
	// question's total
	stats := []QuestionStat{}
	totals := map[uint]int64{}
	for _, r := range rows {
		totals[r.QuestionID] += r.Count
	}
	for _, r := range rows {
		if len(stats) == 0 || stats[len(stats)-1].QuestionID != r.QuestionID {
			stats = append(stats, QuestionStat{QuestionID: r.QuestionID, Text: r.Text})
		}
		q := &stats[len(stats)-1]
		q.Options = append(q.Options, OptionStat{
			OptionID:   r.OptionID,
			Value:      r.Value,
			Label:      r.Label,
			Count:      r.Count,
			Percentage: formatPercentage(r.Count, totals[r.QuestionID]),
		})
	}
	return stats, nil
}

func formatPercentage(count, total int64) string {
	if total == 0 {
		return "0.0"
	}
	return strconv.FormatFloat(float64(count)*100/float64(total), 'f', 1, 64)
}

type submissionRow struct {
	AnswerID  uint
	UserName  *string
	UserEmail *string
	FormTitle string
	Question  string
	Answer    string
	CreatedAt time.Time
}

func (s *Service) submissionsPage(ctx context.Context, f Filter) ([]Submission, Pagination, error) {
	var total int64
	if err := s.answerFilter(ctx, f, true).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var rows []submissionRow
	err := s.answerFilter(ctx, f, true).
		Select(`answers.id AS answer_id,
			users.name AS user_name, users.email AS user_email,
			forms.title AS form_title,
			questions.text AS question,
			answer_options.label AS answer,
			answers.created_at`).
		Joins("LEFT JOIN users ON users.id = answers.user_id").
		Joins("JOIN forms ON forms.id = answers.form_id").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Joins("JOIN answer_options ON answer_options.id = answers.answer_option_id").
		Order("answers.created_at DESC, answers.id DESC").
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	subs := []Submission{}
	for _, r := range rows {
		created := r.CreatedAt.UTC()
		subs = append(subs, Submission{
			AnswerID:  r.AnswerID,
			User:      r.UserName,
			Email:     r.UserEmail,
			FormTitle: r.FormTitle,
			Date:      created.Format("2006-01-02"),
			Time:      created.Format("15:04:05"),
			Question:  r.Question,
			Answer:    r.Answer,
		})
	}

	return subs, Pagination{Current: f.Page, PageSize: f.PageSize, Total: total}, nil
}
