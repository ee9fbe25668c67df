package http

import (
	"net/http"
	"strconv"
	"time"

	"glowbook/pkg/config"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/model"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractWindow parses start/end query parameters (RFC3339) into a
// half-open window. Both parameters are required.
func ExtractWindow(r *http.Request) (model.Window, error) {
	query := r.URL.Query()

	startStr := query.Get("start")
	endStr := query.Get("end")
	if startStr == "" || endStr == "" {
		return model.Window{}, apperrors.InvalidInput("start and end query parameters are required")
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return model.Window{}, apperrors.InvalidInput("invalid start parameter: " + startStr)
	}

	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return model.Window{}, apperrors.InvalidInput("invalid end parameter: " + endStr)
	}

	return model.NewWindow(start, end), nil
}
