package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes and response helpers

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems.  It returns a plain text "ok" with a 200 status.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Home answers GET /home with a plain greeting, handy as a smoke test from
// a browser.
func Home(c echo.Context) error {
    return c.String(http.StatusOK, "Hello World!")
}
