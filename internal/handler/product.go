package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/shop-backend/internal/apperr"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/repository"
	"github.com/iliyamo/shop-backend/internal/storage"
)

const (
	msgMissingImage    = "Nenhum arquivo de imagem foi enviado."
	msgImageTooLarge   = "Arquivo de imagem muito grande."
	msgInvalidPrice    = "Preço inválido."
	msgCreateProduct   = "Erro ao criar produto."
	msgListProducts    = "Erro ao buscar produtos."
	multipartImageName = "image"
)

// Uploader stores an uploaded file and returns its public path.
type Uploader interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// CachePurger drops cached catalogue listings.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// ProductHandler serves the catalogue. Neither endpoint is gated.
type ProductHandler struct {
	Products repository.ProductStore
	Files    Uploader
	Cache    CachePurger // optional
	Log      zerolog.Logger

	now func() time.Time
}

func NewProductHandler(products repository.ProductStore, files Uploader, cache CachePurger, log zerolog.Logger) *ProductHandler {
	if products == nil || files == nil {
		panic("nil dependency passed to NewProductHandler")
	}
	return &ProductHandler{Products: products, Files: files, Cache: cache, Log: log, now: time.Now}
}

// Create handles a multipart form with title, price, description and an
// image file. Fields are validated before the file is written.
func (h *ProductHandler) Create(c echo.Context) error {
	fh, err := c.FormFile(multipartImageName)
	if err != nil {
		return respondError(c, h.Log, apperr.Validation(msgMissingImage))
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price")), 64)
	if err != nil {
		return respondError(c, h.Log, apperr.Validation(msgInvalidPrice))
	}
	title, description := c.FormValue("title"), c.FormValue("description")
	if err := model.ValidateProductFields(title, price); err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	src, err := fh.Open()
	if err != nil {
		return respondError(c, h.Log, apperr.Internal(msgCreateProduct, err))
	}
	defer src.Close()

	image, err := h.Files.Save(ctx, fh.Filename, src)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return respondError(c, h.Log, apperr.Validation(msgImageTooLarge))
		}
		return respondError(c, h.Log, apperr.Internal(msgCreateProduct, err))
	}

	p, err := model.NewProduct(title, price, description, image, h.now())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	p, err = h.Products.Create(ctx, p)
	if err != nil {
		return respondError(c, h.Log, apperr.Internal(msgCreateProduct, err))
	}
	if h.Cache != nil {
		if err := h.Cache.Purge(ctx); err != nil {
			h.Log.Warn().Err(err).Msg("product cache purge failed")
		}
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns the whole catalogue.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	products, err := h.Products.List(ctx)
	if err != nil {
		return respondError(c, h.Log, apperr.Internal(msgListProducts, err))
	}
	if products == nil {
		products = []model.Product{}
	}
	return c.JSON(http.StatusOK, products)
}
