package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/middleware"
	"github.com/moneysuperhero/money-super-hero-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// UserResolver maps the session email to the caller's identity
type UserResolver interface {
	ResolveUser(ctx context.Context, email string) (domain.AuthContext, error)
}

// resolveAuth resolves the caller once per request. When it returns false the
// response has already been written and err is what the handler must return.
func resolveAuth(c echo.Context, users UserResolver, errorCode string) (domain.AuthContext, bool, error) {
	email := middleware.GetEmail(c)
	if email == "" {
		return domain.AuthContext{}, false, NewUnauthorizedError(c, "Authentication required")
	}

	auth, err := users.ResolveUser(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.AuthContext{}, false, NewSoftError(c, errorCode, "User not found")
		}
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to resolve session user")
		return domain.AuthContext{}, false, NewInternalError(c, errorCode, "Failed to resolve user")
	}
	return auth, true, nil
}

func parseIntParam(s string, out *int32) (bool, error) {
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return false, errors.New("invalid integer")
	}
	*out = int32(v)
	return true, nil
}

// parseIDParam parses a positive path id
func parseIDParam(c echo.Context, name string) (int32, bool) {
	var id int32
	ok, err := parseIntParam(c.Param(name), &id)
	if err != nil || !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseListParams reads page, limit, sortColumn and sortDirection from the
// query string. Values are validated later by the domain.
func parseListParams(c echo.Context) (domain.ListParams, []ValidationError) {
	var params domain.ListParams
	var errs []ValidationError

	var page, limit int32
	if ok, err := parseIntParam(c.QueryParam("page"), &page); err != nil {
		errs = append(errs, ValidationError{Field: "page", Message: "Must be an integer"})
	} else if ok {
		params.Page = &page
	}
	if ok, err := parseIntParam(c.QueryParam("limit"), &limit); err != nil {
		errs = append(errs, ValidationError{Field: "limit", Message: "Must be an integer"})
	} else if ok {
		params.Limit = &limit
	}

	params.SortColumn = c.QueryParam("sortColumn")
	params.SortDirection = c.QueryParam("sortDirection")
	return params, errs
}

// parseTransactionListParams adds the from/to range to parseListParams.
// A date-only to bound covers the whole day.
func parseTransactionListParams(c echo.Context) (domain.TransactionListParams, []ValidationError) {
	listParams, errs := parseListParams(c)
	params := domain.TransactionListParams{ListParams: listParams}

	from, err := util.ParseDateBound(c.QueryParam("from"), false)
	if err != nil {
		errs = append(errs, ValidationError{Field: "from", Message: "Must be YYYY-MM-DD or RFC 3339"})
	}
	to, err := util.ParseDateBound(c.QueryParam("to"), true)
	if err != nil {
		errs = append(errs, ValidationError{Field: "to", Message: "Must be YYYY-MM-DD or RFC 3339"})
	}
	params.From = from
	params.To = to

	return params, errs
}
