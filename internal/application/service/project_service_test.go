package service

import (
	"context"
	"testing"
	"time"

	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/pkg/apperror"
)

func TestCreateProjectDuplicateName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.projects.CreateProject(context.Background(), &CreateProjectInput{
		UserID:    env.freelancer.ID,
		ClientID:  env.client.ID,
		Name:      "Website relaunch",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !apperror.IsKind(err, apperror.KindConflict) {
		t.Errorf("duplicate name: err = %v, want conflict", err)
	}

	// the same name under another client is fine
	second, err := env.clients.CreateClient(context.Background(), &CreateClientInput{
		UserID: env.freelancer.ID,
		Name:   "Beta Corp",
		Email:  "invoices@beta.example",
	})
	if err != nil {
		t.Fatalf("create second client: %v", err)
	}
	if _, err := env.projects.CreateProject(context.Background(), &CreateProjectInput{
		UserID:    env.freelancer.ID,
		ClientID:  second.ID,
		Name:      "Website relaunch",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Errorf("same name, other client: err = %v, want nil", err)
	}
}

func TestCreateProjectValidatesDates(t *testing.T) {
	env := newTestEnv(t)

	end := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	_, err := env.projects.CreateProject(context.Background(), &CreateProjectInput{
		UserID:    env.freelancer.ID,
		ClientID:  env.client.ID,
		Name:      "Time machine",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	})
	if !apperror.IsKind(err, apperror.KindValidation) {
		t.Errorf("end before start: err = %v, want validation error", err)
	}
}

func TestCreateProjectRejectsForeignClient(t *testing.T) {
	env := newTestEnv(t)
	stranger := env.newUser(t, "stranger", enum.AccountTypeFreelancer)

	_, err := env.projects.CreateProject(context.Background(), &CreateProjectInput{
		UserID:    stranger.ID,
		ClientID:  env.client.ID,
		Name:      "Poached",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != apperror.ErrForbidden {
		t.Errorf("err = %v, want forbidden", err)
	}
}

func TestProjectDeletionProtectedByBudgets(t *testing.T) {
	env := newTestEnv(t)
	env.newBudget(t, issue2026, validity2026)

	err := env.projects.DeleteProject(context.Background(), env.freelancer.ID, env.project.ID)
	if !apperror.IsKind(err, apperror.KindReferential) {
		t.Errorf("delete with budget: err = %v, want referential error", err)
	}
}

func TestUpdateProjectStatus(t *testing.T) {
	env := newTestEnv(t)

	status := enum.ProjectStatusFinished
	project, err := env.projects.UpdateProject(context.Background(), &UpdateProjectInput{
		UserID: env.freelancer.ID,
		ID:     env.project.ID,
		Status: &status,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if project.Status != enum.ProjectStatusFinished {
		t.Errorf("status = %s, want finished", project.Status)
	}
}
