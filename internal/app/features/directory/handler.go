// internal/app/features/directory/handler.go

// Package directory serves the cross-role user listing: filter by role,
// status, and location, paged with opaque keyset cursors.
package directory

import (
	"context"
	"net/http"

	uierrors "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/errors"
	userstore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/users"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/httpjson"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/paging"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/timeouts"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Users  *userstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, ErrLog: errLog, Log: logger}
}

// listResponse carries one page of the directory plus the cursors the
// client needs to fetch its neighbours.
type listResponse struct {
	Users  []models.PublicUser `json:"users"`
	Paging pageInfo            `json:"paging"`
}

type pageInfo struct {
	Prev    string `json:"prev,omitempty"`
	Next    string `json:"next,omitempty"`
	HasPrev bool   `json:"has_prev"`
	HasNext bool   `json:"has_next"`
}

// Serve handles GET /api/users.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	role, ok := models.ParseRole(query.Get(r, "role"))
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "invalid role: must be farmer, laborer, or retailer")
		return
	}
	// Admin accounts are internal; the directory never lists them.
	if role == models.RoleAdmin {
		httpjson.Error(w, http.StatusBadRequest, "invalid role: must be farmer, laborer, or retailer")
		return
	}

	f := userstore.Filter{
		Role:     role,
		Status:   query.Get(r, "status"),
		State:    query.Get(r, "state"),
		District: query.Get(r, "district"),
	}

	cfg := paging.Configure(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Users.List(ctx, f, cfg)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "directory: list users", err)
		return
	}

	result := paging.TrimPage(&rows, cfg)
	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}

	prev, next := paging.BuildCursors(rows,
		func(u models.User) string { return u.FullNameCI },
		func(u models.User) primitive.ObjectID { return u.ID })

	users := make([]models.PublicUser, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].PublicProfile())
	}

	info := pageInfo{HasPrev: result.HasPrev, HasNext: result.HasNext}
	if result.HasPrev {
		info.Prev = prev
	}
	if result.HasNext {
		info.Next = next
	}

	httpjson.List(w, listResponse{Users: users, Paging: info}, len(users))
}
