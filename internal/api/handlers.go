package api

import (
	"net/http"
	"strings"

	"github.com/tutu-network/dreambank/internal/domain"
)

// ─── Request Bodies ─────────────────────────────────────────────────────────

type userRequest struct {
	ID string `json:"id"`
}

type activityRequest struct {
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

type rewardRequest struct {
	Name string `json:"name"`
	Cost int64  `json:"cost"`
}

type refRequest struct {
	Activity string `json:"activity,omitempty"`
	Treat    string `json:"treat,omitempty"`
	Dream    string `json:"dream,omitempty"`
}

// ─── Users ──────────────────────────────────────────────────────────────────

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": s.bank.Users(),
	})
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	id := strings.TrimSpace(req.ID)
	if err := s.bank.AddUser(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	st, err := s.bank.Status(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.bank.DeleteUser(r.Context(), pathParam(r, "user")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.bank.Status(pathParam(r, "user"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleResetUser(w http.ResponseWriter, r *http.Request) {
	user := pathParam(r, "user")
	if err := s.bank.ResetUserLedger(r.Context(), user); err != nil {
		writeDomainError(w, err)
		return
	}
	st, err := s.bank.Status(user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ─── Activity Log ───────────────────────────────────────────────────────────

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.bank.Log(pathParam(r, "user"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

func (s *Server) handleDeleteLogEntry(w http.ResponseWriter, r *http.Request) {
	res, err := s.bank.DeleteLogEntry(r.Context(), pathParam(r, "user"), pathParam(r, "entry"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req refRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	c, err := s.bank.CompleteActivity(r.Context(), pathParam(r, "user"), req.Activity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ─── Purchases ──────────────────────────────────────────────────────────────

func (s *Server) handlePurchaseTreat(w http.ResponseWriter, r *http.Request) {
	var req refRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	p, err := s.bank.PurchaseTreat(r.Context(), pathParam(r, "user"), req.Treat)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePurchaseDream(w http.ResponseWriter, r *http.Request) {
	var req refRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	p, err := s.bank.PurchaseDream(r.Context(), pathParam(r, "user"), req.Dream)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ─── Catalog ────────────────────────────────────────────────────────────────

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activities": s.bank.Activities(),
	})
}

func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	a, err := s.bank.AddActivity(r.Context(), req.Name, req.Points)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleEditActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	a, err := s.bank.EditActivity(r.Context(), pathParam(r, "ref"), req.Name, req.Points)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleRemoveActivity(w http.ResponseWriter, r *http.Request) {
	if err := s.bank.RemoveActivity(r.Context(), pathParam(r, "ref")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTreats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"treats": s.bank.Treats(),
	})
}

func (s *Server) handleAddTreat(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	t, err := s.bank.AddTreat(r.Context(), req.Name, req.Cost)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleEditTreat(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	t, err := s.bank.EditTreat(r.Context(), pathParam(r, "ref"), req.Name, req.Cost)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleRemoveTreat(w http.ResponseWriter, r *http.Request) {
	if err := s.bank.RemoveTreat(r.Context(), pathParam(r, "ref")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDreams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dreams": s.bank.Dreams(),
	})
}

func (s *Server) handleAddDream(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	d, err := s.bank.AddDream(r.Context(), req.Name, req.Cost)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleEditDream(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	d, err := s.bank.EditDream(r.Context(), pathParam(r, "ref"), req.Name, req.Cost)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleRemoveDream(w http.ResponseWriter, r *http.Request) {
	if err := s.bank.RemoveDream(r.Context(), pathParam(r, "ref")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Pool & Snapshots ───────────────────────────────────────────────────────

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pool": s.bank.Pool(),
	})
}

func (s *Server) handleResetPool(w http.ResponseWriter, r *http.Request) {
	if err := s.bank.ResetDreamPool(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pool": s.bank.Pool(),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bank.Export())
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var snap domain.Snapshot
	if err := decodeJSON(r, &snap); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.bank.Import(r.Context(), snap); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": len(snap.Users),
	})
}
