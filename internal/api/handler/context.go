package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// pathID parses the :id route parameter. Anything that is not a base-10
// integer is rejected with 400 before any service call.
func pathID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}
	return id, nil
}
