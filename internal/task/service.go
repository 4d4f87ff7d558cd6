package task

import (
	"context"

	"tasklist/internal/model"
)

type Service struct {
	repo TaskRepository
}

func NewService(repo TaskRepository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Content   string
	Completed bool
}

func (s *Service) List(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Task, error) {
	if err := ValidateID(id); err != nil {
		return model.Task{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (model.Task, error) {
	content, err := ValidateContent(in.Content)
	if err != nil {
		return model.Task{}, err
	}
	return s.repo.Create(ctx, content, in.Completed)
}

// Update merges patch into the stored task. An empty patch is a read.
func (s *Service) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if err := ValidateID(id); err != nil {
		return model.Task{}, err
	}

	if patch.Content != nil {
		content, err := ValidateContent(*patch.Content)
		if err != nil {
			return model.Task{}, err
		}
		patch.Content = &content
	}

	if patch.Empty() {
		return s.repo.Get(ctx, id)
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the task and returns it as it was before removal.
func (s *Service) Delete(ctx context.Context, id string) (model.Task, error) {
	if err := ValidateID(id); err != nil {
		return model.Task{}, err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
