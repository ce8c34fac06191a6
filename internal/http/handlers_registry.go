package http

import (
	"net/http"

	"scorpiongym/internal/core"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	list, err := s.registry.ListAccounts(r.Context(), gymID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if list == nil {
		list = []core.Account{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var a core.Account
	if err := decodeBody(r, &a); err != nil {
		respondError(w, r, err)
		return
	}
	a.ID = 0

	created, err := s.registry.CreateAccount(r.Context(), a)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type accountUpdateRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req accountUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.registry.UpdateAccount(r.Context(), id, gymID, req.Name, req.Kind)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.registry.DeleteAccount(r.Context(), id, gymID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategoryGroups(w http.ResponseWriter, r *http.Request) {
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	list, err := s.registry.ListCategoryGroups(r.Context(), gymID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if list == nil {
		list = []core.CategoryGroup{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateCategoryGroup(w http.ResponseWriter, r *http.Request) {
	var g core.CategoryGroup
	if err := decodeBody(r, &g); err != nil {
		respondError(w, r, err)
		return
	}
	g.ID = 0

	created, err := s.registry.CreateCategoryGroup(r.Context(), g)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type categoryGroupUpdateRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleUpdateCategoryGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req categoryGroupUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.registry.UpdateCategoryGroup(r.Context(), id, gymID, req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategoryGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.registry.DeleteCategoryGroup(r.Context(), id, gymID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
