package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"jpashop/src/app/http/response"
	"jpashop/src/app/middleware"
	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
)

// parseID reads a positive int64 path parameter. It writes a 400 and
// returns false when the value is malformed.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, name, "must be a positive integer", middleware.GetRequestID(c))
		return 0, false
	}
	return id, true
}

// parseWindow reads the offset and limit query parameters.
func parseWindow(c *gin.Context) (ports.Window, bool) {
	var w ports.Window
	for _, p := range []struct {
		name string
		dst  *int
	}{{"offset", &w.Offset}, {"limit", &w.Limit}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.ValidationError(c, p.name, "must be an integer", middleware.GetRequestID(c))
			return ports.Window{}, false
		}
		*p.dst = n
	}
	return w, true
}

// parseSearch reads the status and member_name query parameters.
func parseSearch(c *gin.Context) (ports.OrderSearch, bool) {
	search := ports.OrderSearch{MemberName: c.Query("member_name")}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			response.FromDomainError(c, err, middleware.GetRequestID(c))
			return ports.OrderSearch{}, false
		}
		search.Status = status
	}
	return search, true
}
