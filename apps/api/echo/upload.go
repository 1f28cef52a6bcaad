package echoapi

import (
	"net/http"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core"
)

const uploadField = "file"

type uploadApi struct {
	store core.FileStore
}

func registerUploadAPI(g *echo.Group, deps ServerDeps) {
	if deps.Uploads == nil {
		return
	}
	api := uploadApi{store: deps.Uploads}

	// leave room for the multipart envelope; the store enforces the file size itself
	limit := strconv.FormatInt(deps.Conf.Server.MaxUploadSize+1<<20, 10)
	g.POST("/uploads", api.upload, middleware.BodyLimit(limit))
}

type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

func (api *uploadApi) upload(ctx echo.Context) error {
	fh, err := ctx.FormFile(uploadField)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return core.NewValidationError(errors.New("file is required"), core.FieldError{Field: uploadField, Error: "this field is required"})
		}
		return errors.Wrap(err, "reading multipart file")
	}

	name, err := api.store.Save(fh)
	if err != nil {
		return errors.Wrap(err, "saving upload")
	}
	return ctx.JSON(http.StatusCreated, UploadResponse{
		Message:  "file uploaded",
		Filename: name,
		URL:      path.Join("/uploads", name),
	})
}
