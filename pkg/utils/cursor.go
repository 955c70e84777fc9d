package utils

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// MessagePageParams carries timestamp-cursor pagination for message history:
// fetch up to Limit messages created strictly before Before.
type MessagePageParams struct {
	Before *time.Time
	Limit  int
}

// GetMessagePageParams extracts cursor pagination from the request. The
// before cursor is RFC3339; a malformed cursor is ignored rather than
// rejected so a stale client keeps working.
func GetMessagePageParams(c echo.Context, defaultLimit, maxLimit int) MessagePageParams {
	params := MessagePageParams{Limit: defaultLimit}

	if beforeStr := c.QueryParam("before"); beforeStr != "" {
		if before, err := time.Parse(time.RFC3339, beforeStr); err == nil {
			params.Before = &before
		}
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	if params.Limit > maxLimit {
		params.Limit = maxLimit
	}

	return params
}
