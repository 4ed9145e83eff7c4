package http_handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/islamipic/api/internal/application/gallery"
	"github.com/islamipic/api/internal/domain"
	"github.com/islamipic/api/internal/logger"
	"github.com/islamipic/api/internal/transport/http/dto"
	"github.com/islamipic/api/internal/transport/http/middleware"
	"github.com/islamipic/api/internal/transport/http/response"
)

// maxUploadBytes caps multipart uploads at 16 MiB.
const maxUploadBytes = 16 << 20

type ImageHandler struct {
	svc *gallery.Service
}

func NewImageHandler(svc *gallery.Service) *ImageHandler {
	return &ImageHandler{svc: svc}
}

func viewerID(r *http.Request) string {
	id, _ := middleware.AccountIDFromContext(r.Context())
	return id
}

func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

// Upload accepts multipart/form-data: image file + title, category,
// description, tags.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.WriteError(w, r, domain.ErrInvalidField("image", "invalid multipart body"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.WriteError(w, r, domain.ErrMissingField("image"))
		return
	}
	defer file.Close()

	form := dto.UploadImageForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Tags:        dto.SplitTags(r.FormValue("tags")),
		File:        file,
		Header:      header,
	}
	if err := form.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	img, err := h.svc.Upload(r.Context(), gallery.UploadInput{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Tags:        form.Tags,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Size:        header.Size,
	})
	if err != nil {
		middleware.ImageUploadsTotal.WithLabelValues(domain.Code(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.ImageUploadsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("image_id", img.ID).
		Str("slug", img.Slug).
		Msg("image_uploaded")

	response.Created(w, dto.FromImage(img, viewerID(r)))
}

func (h *ImageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateImageRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	img, err := h.svc.Update(r.Context(), gallery.UpdateInput{
		ID:          chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromImage(img, viewerID(r)))
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *ImageHandler) DeleteBySlug(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBySlug(r.Context(), chi.URLParam(r, "slug")); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ---- public catalog ----

func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	imgs, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromImages(imgs, viewerID(r)))
}

func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	img, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	h.countView(r, &img)
	response.OK(w, dto.FromImage(img, viewerID(r)))
}

func (h *ImageHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	img, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	h.countView(r, &img)
	response.OK(w, dto.FromImage(img, viewerID(r)))
}

// countView bumps the view counter on a successful detail read.
func (h *ImageHandler) countView(r *http.Request, img *domain.Image) {
	if _, err := h.svc.RecordView(r.Context(), img.ID); err == nil {
		img.Views++
	}
}

func (h *ImageHandler) Categories(w http.ResponseWriter, r *http.Request) {
	response.OK(w, dto.CategoriesResponse{Categories: domain.Categories})
}

func (h *ImageHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	imgs, err := h.svc.ListByCategory(r.Context(), chi.URLParam(r, "category"), limit, offset)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromImages(imgs, viewerID(r)))
}

func (h *ImageHandler) ListByTag(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	imgs, err := h.svc.ListByTag(r.Context(), chi.URLParam(r, "tag"), limit, offset)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromImages(imgs, viewerID(r)))
}

func (h *ImageHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	imgs, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromImages(imgs, viewerID(r)))
}

// ---- authenticated engagement ----

func (h *ImageHandler) Like(w http.ResponseWriter, r *http.Request) {
	img, err := h.svc.Like(r.Context(), chi.URLParam(r, "id"), viewerID(r))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromImage(img, viewerID(r)))
}

func (h *ImageHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	img, err := h.svc.Unlike(r.Context(), chi.URLParam(r, "id"), viewerID(r))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromImage(img, viewerID(r)))
}

func (h *ImageHandler) Download(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.DownloadResponse{URL: url})
}

func (h *ImageHandler) Share(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.RecordShare(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.CounterResponse{Count: n})
}
