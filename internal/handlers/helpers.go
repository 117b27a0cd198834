package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/web_store/internal/apperr"
	"github.com/Skotchmaster/web_store/internal/util"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}

func pageParams(c echo.Context) (page, offset, limit int) {
	page = parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit = util.Calculate(page, size)
	return page, offset, limit
}

func listEnvelope(data any, page, limit int, total int64) echo.Map {
	return echo.Map{
		"data": data,
		"meta": echo.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	}
}
