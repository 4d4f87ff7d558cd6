package httpapi

import (
	"errors"
	"net/http"
	"time"

	"tasklist/internal/model"
	"tasklist/internal/task"
)

const (
	msgInvalidID       = "Invalid task ID format"
	msgNotFound        = "Task is not found!"
	msgContentRequired = "Content of task must be provided"
	msgInternal        = "internal error"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.service.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	found, err := s.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

type createTaskRequest struct {
	Content   string `json:"content" schema:"content"`
	Completed *bool  `json:"completed,omitempty" schema:"completed"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := task.CreateInput{Content: req.Content}
	if req.Completed != nil {
		in.Completed = *req.Completed
	}

	created, err := s.service.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type updateTaskRequest struct {
	Content   *string `json:"content,omitempty" schema:"content"`
	Completed *bool   `json:"completed,omitempty" schema:"completed"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := task.ValidateID(id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req updateTaskRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.service.Update(r.Context(), id, model.TaskPatch{
		Content:   req.Content,
		Completed: req.Completed,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.service.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, task.ErrInvalidID):
		writeError(w, http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, task.ErrContentRequired):
		writeError(w, http.StatusBadRequest, msgContentRequired)
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		s.logger.Error("request failed",
			"rid", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
