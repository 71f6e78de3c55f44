package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"exercisely-backend/pkg/common"
	"exercisely-backend/pkg/utils"
)

// decodeAndValidate decodes a JSON body into dst and runs struct
// validation. It writes the error response itself and reports whether
// the handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body")
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return false
	}
	return true
}

// paginationFromQuery reads page/pageSize query parameters, falling
// back to defaults on anything unparsable.
func paginationFromQuery(r *http.Request) common.PaginationParams {
	params := common.DefaultPaginationParams()
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.Page = n
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.PageSize = n
		}
	}
	return params.Normalize()
}

// splitMulti splits a comma-separated query value into trimmed parts.
func splitMulti(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
