// Package api exposes the tracker over a JSON HTTP interface.
//
// Authentication routes are open, everything else sits behind the
// SecurityRealm. Resource lookups never distinguish "does not exist"
// from "exists but belongs to someone else"; both come back as the same
// not-found, except task creation where the original wire contract uses
// a bad request.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/andrebq/taskdeck/tracker"
	"github.com/andrebq/taskdeck/tracker/auth"
	"github.com/andrebq/taskdeck/tracker/store"
	"github.com/julienschmidt/httprouter"
)

type (
	Service struct {
		store  store.Store
		hasher auth.Hasher
		tokens *auth.Tokens
	}

	registerResponse struct {
		Message  string `json:"message"`
		UserID   int64  `json:"userId"`
		Username string `json:"username"`
	}

	loginResponse struct {
		Token string `json:"token"`
	}
)

func NewService(st store.Store, hasher auth.Hasher, tokens *auth.Tokens) *Service {
	return &Service{store: st, hasher: hasher, tokens: tokens}
}

func AsHandler(svc *Service) http.Handler {
	realm := NewRealm(svc.tokens)
	router := httprouter.New()
	router.POST("/api/auth/register", svc.register)
	router.POST("/api/auth/login", svc.login)
	router.GET("/api/projects", realm.Protect(svc.listProjects))
	router.POST("/api/projects", realm.Protect(svc.createProject))
	router.GET("/api/projects/:id", realm.Protect(svc.getProject))
	router.DELETE("/api/projects/:id", realm.Protect(svc.deleteProject))
	router.POST("/api/projects/:id/tasks", realm.Protect(svc.addTask))
	router.GET("/api/tasks/:id", realm.Protect(svc.getTask))
	router.PUT("/api/tasks/:id", realm.Protect(svc.updateTask))
	router.DELETE("/api/tasks/:id", realm.Protect(svc.deleteTask))
	return router
}

func (s *Service) register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds tracker.Credentials
	if !decode(w, r, &creds) {
		return
	}
	if err := creds.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	digest, err := s.hasher.Hash(creds.Password)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	user, err := s.store.Users().Create(r.Context(), creds.Username, digest)
	if errors.Is(err, store.ErrDuplicateUsername) {
		writeError(w, http.StatusBadRequest, "username already exists")
		return
	} else if err != nil {
		serverFault(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, registerResponse{
		Message:  "registration successful",
		UserID:   user.ID,
		Username: user.Username,
	})
}

func (s *Service) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds tracker.Credentials
	if !decode(w, r, &creds) {
		return
	}
	// the same response for unknown user and wrong password, callers
	// should not learn which one it was
	user, found, err := s.store.Users().FindByUsername(r.Context(), creds.Username)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	if !found || !s.hasher.Verify(creds.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Service) listProjects(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller := identityFrom(r.Context())
	projects, err := s.store.Projects().ListByOwner(r.Context(), caller.UserID)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	if projects == nil {
		projects = []tracker.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Service) getProject(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	caller := identityFrom(r.Context())
	id, ok := parseID(params, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	project, found, err := s.store.Projects().GetByIDForOwner(r.Context(), id, caller.UserID)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Service) createProject(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller := identityFrom(r.Context())
	var input tracker.ProjectInput
	if !decode(w, r, &input) {
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	project, err := s.store.Projects().Create(r.Context(), input, caller.UserID)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	w.Header().Add("Location", fmt.Sprintf("/api/projects/%v", project.ID))
	writeJSON(w, http.StatusCreated, project)
}

func (s *Service) deleteProject(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	caller := identityFrom(r.Context())
	id, ok := parseID(params, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	found, err := s.store.Projects().Delete(r.Context(), id, caller.UserID)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) addTask(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	caller := identityFrom(r.Context())
	projectID, ok := parseID(params, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "project not found or unauthorized")
		return
	}
	var input tracker.TaskInput
	if !decode(w, r, &input) {
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, found, err := s.store.Tasks().AddToProject(r.Context(), projectID, input, caller.UserID)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusBadRequest, "project not found or unauthorized")
		return
	}
	w.Header().Add("Location", fmt.Sprintf("/api/projects/%v", projectID))
	writeJSON(w, http.StatusCreated, task)
}

func (s *Service) getTask(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	caller := identityFrom(r.Context())
	id, ok := parseID(params, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "task not found or unauthorized")
		return
	}
	task, found, err := s.store.Tasks().GetByID(r.Context(), id, caller.UserID)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "task not found or unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Service) updateTask(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	caller := identityFrom(r.Context())
	id, ok := parseID(params, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "task not found or unauthorized")
		return
	}
	var input tracker.TaskInput
	if !decode(w, r, &input) {
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, found, err := s.store.Tasks().Update(r.Context(), id, input, caller.UserID)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "task not found or unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Service) deleteTask(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	caller := identityFrom(r.Context())
	id, ok := parseID(params, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "task not found or unauthorized")
		return
	}
	found, err := s.store.Tasks().Delete(r.Context(), id, caller.UserID)
	if err != nil {
		serverFault(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "task not found or unauthorized")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(out)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func parseID(params httprouter.Params, name string) (int64, bool) {
	id, err := strconv.ParseInt(params.ByName(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
