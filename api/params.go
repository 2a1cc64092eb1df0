package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// optionalPassengerID reads the passenger_id query parameter. A missing
// parameter yields nil.
func optionalPassengerID(c *gin.Context) (*int64, error) {
	raw, ok := c.GetQuery("passenger_id")
	if !ok || raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid passenger_id %q", raw)
	}
	return &id, nil
}
