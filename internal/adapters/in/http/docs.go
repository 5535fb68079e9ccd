package http

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// openAPIDoc serves the contract to swag, which echo-swagger reads doc.json from.
type openAPIDoc struct {
	json atomic.Pointer[string]
}

func (d *openAPIDoc) ReadDoc() string {
	if doc := d.json.Load(); doc != nil {
		return *doc
	}
	return "{}"
}

var (
	apiDoc         = &openAPIDoc{}
	registerAPIDoc sync.Once
)

// RegisterDocs serves doc as JSON on /api/openapi.json and through the
// Swagger UI under /swagger/.
func RegisterDocs(e *echo.Echo, doc *openapi3.T) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	content := string(raw)
	apiDoc.json.Store(&content)
	registerAPIDoc.Do(func() {
		swag.Register(swag.Name, apiDoc)
	})

	e.GET("/api/openapi.json", func(c echo.Context) error {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, raw)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return nil
}
