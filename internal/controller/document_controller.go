package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/loader"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
	loaders         *loader.Registry
	uploadDir       string
}

func NewDocumentController(documentService service.IDocumentService, loaders *loader.Registry, uploadDir string) IDocumentController {
	return &documentController{
		documentService: documentService,
		loaders:         loaders,
		uploadDir:       uploadDir,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Post("", c.Upload)
	h.Get("", c.List)
	h.Delete(":hash", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	// 1. Get file from request
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Document file is required"))
	}

	// 2. Reject unsupported extensions before touching disk
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !c.loaders.IsSupported(ext) {
		msg := fmt.Sprintf("unsupported file type '%s' (supported: %s)", ext, strings.Join(c.loaders.Supported(), ", "))
		return ctx.Status(fiber.StatusUnsupportedMediaType).JSON(serverutils.ErrorResponse(415, msg))
	}

	// 3. Persist the upload before indexing
	if err := os.MkdirAll(c.uploadDir, 0755); err != nil {
		return err
	}
	dstPath := filepath.Join(c.uploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := ctx.SaveFile(file, dstPath); err != nil {
		return err
	}

	req := &dto.UploadDocumentRequest{
		FilePath:       dstPath,
		Filename:       file.Filename,
		ConversationId: ctx.FormValue("conversation_id"),
	}

	// 4. Kick off the ingestion pipeline
	res, err := c.documentService.Ingest(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload document", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	res, err := c.documentService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	hash := ctx.Params("hash")

	res, err := c.documentService.Delete(ctx.Context(), hash)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete document", res))
}
