package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func toolColumns() []string {
	return []string{"id", "name", "category", "description", "features", "tags", "integrations",
		"pricing_model", "starting_price", "billing_period", "rating", "review_count", "last_updated"}
}

func TestPGRepoListDecodesJSONColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	updated := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(toolColumns()).
		AddRow("jira", "Jira", "Project Management", "Issue tracking", []byte(`["Kanban boards","Roadmaps"]`), []byte(`["agile"]`),
			[]byte(`["GitHub","Slack"]`), "freemium", 8.15, "monthly", 4.3, 14000, updated).
		AddRow("vscode", "Visual Studio Code", "Development", nil, []byte(`[]`), []byte(`[]`),
			[]byte(`[]`), "free", nil, nil, 4.8, 30000, nil)
	mock.ExpectQuery("SELECT (.+) FROM tools ORDER BY lower\\(name\\), id").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	tools, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	jira := tools[0]
	if len(jira.Features) != 2 || jira.Features[0] != "Kanban boards" {
		t.Fatalf("unexpected features %v", jira.Features)
	}
	if jira.Pricing.StartingPrice == nil || *jira.Pricing.StartingPrice != 8.15 {
		t.Fatalf("unexpected starting price %v", jira.Pricing.StartingPrice)
	}
	if !jira.LastUpdated.Equal(updated) {
		t.Fatalf("unexpected last updated %v", jira.LastUpdated)
	}
	vscode := tools[1]
	if vscode.Pricing.StartingPrice != nil || vscode.Description != "" || vscode.Features == nil {
		t.Fatalf("expected nullable columns to map to zero values, got %+v", vscode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("FROM tools").WithArgs("missing").WillReturnRows(sqlmock.NewRows(toolColumns()))

	repo := &PGRepo{DB: db}
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpsertEncodesLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	tool := DemoCatalog()[0]
	mock.ExpectExec("INSERT INTO tools").
		WithArgs(
			tool.ID,
			tool.Name,
			tool.Category,
			tool.Description,
			`["TypeScript support","Debugging","Git integration","Extensions"]`,
			`["editor","ide","open source"]`,
			`["GitHub","GitLab","Docker"]`,
			"free",
			nil, // starting_price
			nil, // billing_period
			tool.Rating,
			tool.ReviewCount,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Upsert(context.Background(), tool); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCategoryStatsRoundsAverage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("GROUP BY category").WillReturnRows(
		sqlmock.NewRows([]string{"category", "tool_count", "average_rating"}).
			AddRow("Design", 2, 4.6000001).
			AddRow("Development", 3, 4.7333333),
	)

	repo := &PGRepo{DB: db}
	stats, err := repo.CategoryStats(context.Background())
	if err != nil {
		t.Fatalf("CategoryStats: %v", err)
	}
	if len(stats) != 2 || stats[1].ToolCount != 3 || stats[1].AverageRating != 4.73 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestPGRepoCreateSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sub := Submission{
		ID:        "8a4d7f0e-8a0c-4a53-9f55-2b6c1c7b4c11",
		Name:      "Linear",
		Category:  "Project Management",
		Status:    SubmissionPending,
		CreatedAt: time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO tool_submissions").
		WithArgs(sub.ID, sub.Name, nil, sub.Category, nil, nil, nil, SubmissionPending, sub.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.CreateSubmission(context.Background(), sub); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
