package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"bookshelf/internal/http-api/form"
)

const maxMultipartMemory = 8 << 20

// readSubmission collects the raw book fields from a JSON object, a
// multipart form or a urlencoded form.
func readSubmission(c *gin.Context) (form.Values, error) {
	switch c.ContentType() {
	case binding.MIMEJSON:
		var body map[string]any
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return nil, err
		}
		return form.FromJSON(body)
	case binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, err
		}
	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
	}
	return form.FromURLValues(c.Request.PostForm), nil
}
