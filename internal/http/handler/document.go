package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"lendflow/internal/model"
	"lendflow/internal/repository"
	"lendflow/internal/service"
)

// ListDocuments returns the caller's documents. Lenders pass ?applicationId=.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return handleError(c, err)
		}
		ownerID, err := queryID(c, "ownerId")
		if err != nil {
			return handleError(c, err)
		}
		appID, err := queryID(c, "applicationId")
		if err != nil {
			return handleError(c, err)
		}
		f := repository.DocumentFilter{
			OwnerID:       ownerID,
			ApplicationID: appID,
			Type:          model.DocumentType(strings.ToUpper(c.Query("type"))),
		}
		res, err := svc.List(c.UserContext(), caller(c), f, limit, offset)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument stores a multipart upload (field "file") with form fields
// "type" and optional "applicationId".
//
// @Summary  Upload a KYC document
// @Tags     documents
// @Accept   multipart/form-data
// @Produce  json
// @Param    file          formData file   true  "document"
// @Param    type          formData string true  "PAN_CARD, AADHAR_CARD, BANK_STATEMENT, SALARY_SLIP, ADDRESS_PROOF or OTHER"
// @Param    applicationId formData int    false "attach to application"
// @Success  201 {object} model.Document
// @Router   /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		in := service.UploadInput{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Type:        model.DocumentType(strings.ToUpper(utils.CopyString(c.FormValue("type")))),
		}
		if raw := c.FormValue("applicationId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid applicationId")
			}
			in.ApplicationID = &id
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()
		in.Reader = f

		doc, err := svc.Upload(c.UserContext(), caller(c), in)
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		doc, err := svc.Get(c.UserContext(), caller(c), id)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument returns a presigned link, or redirects to it with ?redirect=true.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		link, err := svc.Download(c.UserContext(), caller(c), id)
		if err != nil {
			return handleError(c, err)
		}
		if queryBool(c, "redirect") {
			return c.Redirect(link.URL, fiber.StatusFound)
		}
		return c.JSON(link)
	}
}

func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		if err := svc.Delete(c.UserContext(), caller(c), id); err != nil {
			return handleError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type documentStatusRequest struct {
	Status model.DocumentStatus `json:"status"`
}

func UpdateDocumentStatus(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		var req documentStatusRequest
		if err := bind(c, &req); err != nil {
			return handleError(c, err)
		}
		status := model.DocumentStatus(strings.ToUpper(string(req.Status)))
		doc, err := svc.UpdateStatus(c.UserContext(), caller(c), id, status)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(doc)
	}
}

// DocumentChecklist reports which required documents the caller has uploaded.
func DocumentChecklist(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cl, err := svc.Checklist(c.UserContext(), caller(c))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(cl)
	}
}
