package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"todo-list/internal/config"
	"todo-list/internal/domain"
	"todo-list/internal/errors"
	"todo-list/internal/logging"
	"todo-list/internal/services"
	"todo-list/internal/validation"
)

// Handlers exposes the task services over HTTP
type Handlers struct {
	services  *services.ServiceContainer
	validator *validation.TaskValidator
}

// NewHandlers creates handlers over an initialized service container
func NewHandlers(container *services.ServiceContainer) *Handlers {
	return &Handlers{services: container, validator: validation.NewTaskValidator()}
}

// taskResponse is the JSON shape of a task
type taskResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type sortResponse struct {
	Tasks         []taskResponse `json:"tasks"`
	NextAscending bool           `json:"next_ascending"`
}

func toTaskResponse(t domain.Task) taskResponse {
	return taskResponse{ID: t.ID, Name: t.Name, Date: t.CreatedAt, Status: t.Status.String()}
}

func toTaskResponses(tasks []domain.Task) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskResponse(t)
	}
	return out
}

// NewRouter registers every route
func NewRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/tasks", h.ListTasks).Methods("GET")
	router.HandleFunc("/tasks", h.CreateTask).Methods("POST")
	router.HandleFunc("/tasks/sort/{field}", h.SortTasks).Methods("POST")
	router.HandleFunc("/tasks/{id}/complete", h.CompleteTask).Methods("POST")
	router.HandleFunc("/statuses", h.ListStatuses).Methods("GET")
	router.HandleFunc("/quote", h.GetQuote).Methods("GET")
	router.HandleFunc("/mode", h.GetMode).Methods("GET")
	router.HandleFunc("/mode/toggle", h.ToggleMode).Methods("POST")
	return router
}

// NewHandler wraps the router with CORS for the configured origins
func NewHandler(h *Handlers, cfg config.ServerConfig) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	})
	return c.Handler(NewRouter(h))
}

// Serve runs the HTTP surface until ctx is done
func Serve(ctx context.Context, container *services.ServiceContainer, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           NewHandler(NewHandlers(container), cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Debugf("listening on %s\n", cfg.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// respondWithJSON formats and sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps an error onto a status code and JSON body
func respondWithError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case validation.IsValidationError(err),
		errors.IsErrorType(err, errors.ErrorTypeValidation),
		errors.IsErrorType(err, errors.ErrorTypeInvalidInput):
		status = http.StatusBadRequest
	case errors.IsErrorType(err, errors.ErrorTypeNotFound):
		status = http.StatusNotFound
	case errors.IsErrorType(err, errors.ErrorTypeNetwork):
		status = http.StatusBadGateway
	case errors.IsErrorType(err, errors.ErrorTypeTimeout):
		status = http.StatusGatewayTimeout
	}

	message := errors.GetUserMessage(err)
	if ve, ok := validation.AsValidationError(err); ok {
		message = ve.GetUserFriendlyMessage()
	}
	if errors.ShouldLogError(err) {
		logging.Debugf("request failed: %v\n", err)
	}
	if appErr, ok := errors.AsAppError(err); ok {
		if id, ok := appErr.GetContext("request_id"); ok {
			w.Header().Set("X-Request-ID", fmt.Sprint(id))
		}
	}
	respondWithJSON(w, status, errorResponse{Error: message, Code: errors.GetErrorCode(err)})
}

// Health reports liveness
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTasks returns tasks, filtered by ?status= and then ?q=
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	status, err := h.validator.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		respondWithError(w, err)
		return
	}

	svc := h.services.TaskService
	tasks := svc.SearchByName(r.URL.Query().Get("q"))
	if status != nil {
		filtered := tasks[:0]
		for _, t := range tasks {
			if t.Status == *status {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	respondWithJSON(w, http.StatusOK, toTaskResponses(tasks))
}

// CreateTask adds a task from {"name": "..."}
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, errors.NewInvalidInputError("body", nil, "invalid request payload"))
		return
	}

	task, err := h.services.TaskService.AddTask(r.Context(), body.Name)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, toTaskResponse(*task))
}

// CompleteTask marks the task in the path complete
func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := h.validator.ParseTaskID(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}

	task, err := h.services.TaskService.CompleteTask(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toTaskResponse(*task))
}

// SortTasks sorts on the path field using the shared direction toggle.
// ?ascending=true|false forces the direction for this call.
func (h *Handlers) SortTasks(w http.ResponseWriter, r *http.Request) {
	field, err := h.validator.ParseSortField(mux.Vars(r)["field"])
	if err != nil {
		respondWithError(w, err)
		return
	}

	svc := h.services.TaskService
	var tasks []domain.Task
	switch r.URL.Query().Get("ascending") {
	case "":
		tasks, err = svc.SortNext(r.Context(), field)
	case "true":
		tasks, err = svc.SortBy(r.Context(), field, true)
	case "false":
		tasks, err = svc.SortBy(r.Context(), field, false)
	default:
		err = errors.NewInvalidInputError("ascending", r.URL.Query().Get("ascending"), "must be true or false")
	}
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sortResponse{Tasks: toTaskResponses(tasks), NextAscending: svc.Ascending()})
}

// ListStatuses returns the statuses present among tasks
func (h *Handlers) ListStatuses(w http.ResponseWriter, r *http.Request) {
	options := h.services.TaskService.StatusOptions()
	names := make([]string, len(options))
	for i, s := range options {
		names[i] = s.String()
	}
	respondWithJSON(w, http.StatusOK, names)
}

// GetQuote fetches a fresh quote through the board
func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.services.QuoteBoard.Refresh(r.Context(), h.services.QuoteService)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, quote)
}

// GetMode returns the current appearance
func (h *Handlers) GetMode(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.services.ModeService.Appearance())
}

// ToggleMode flips light/dark
func (h *Handlers) ToggleMode(w http.ResponseWriter, r *http.Request) {
	if _, err := h.services.ModeService.Toggle(r.Context()); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.services.ModeService.Appearance())
}
