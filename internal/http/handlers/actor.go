package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"food-dispatch/internal/domain"
)

// Actor identification headers. The caller's role and id are resolved once
// here and flow down as a domain.Actor; services never look at the request.
const (
	headerActorRole = "X-Actor-Role"
	headerActorID   = "X-Actor-ID"
)

var errBadActor = errors.New("invalid actor headers")

func actorFromRequest(r *http.Request) (domain.Actor, error) {
	role := domain.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(headerActorRole))))
	if !role.Valid() {
		return domain.Actor{}, errBadActor
	}
	id, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(headerActorID)), 10, 64)
	if err != nil || id <= 0 {
		return domain.Actor{}, errBadActor
	}
	return domain.Actor{Role: role, ID: id}, nil
}
