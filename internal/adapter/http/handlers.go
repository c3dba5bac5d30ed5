package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nyius/HouseMarketplace/internal/entity"
	"github.com/nyius/HouseMarketplace/internal/port/repository"
	"github.com/nyius/HouseMarketplace/internal/usecase"
)

const maxSubmissionBytes = 64 << 20 // form fields plus up to six images

type Handlers struct {
	reader   *usecase.ListingReader
	pipeline *usecase.SubmissionPipeline
	listings *usecase.ListingUseCase
	users    *usecase.UserUseCase
	logger   *zap.Logger
}

func NewHandlers(
	reader *usecase.ListingReader,
	pipeline *usecase.SubmissionPipeline,
	listings *usecase.ListingUseCase,
	users *usecase.UserUseCase,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		reader:   reader,
		pipeline: pipeline,
		listings: listings,
		users:    users,
		logger:   logger,
	}
}

// HandleCategoryPage serves GET /api/categories/{category}/listings. Without
// a cursor query parameter it returns the first page; with one it resumes
// after it. The client appends pages and stops once nextCursor is absent.
func (h *Handlers) HandleCategoryPage(w http.ResponseWriter, r *http.Request) {
	category := entity.ListingType(chi.URLParam(r, "category"))
	cursor := repository.Cursor(r.URL.Query().Get("cursor"))

	var (
		page *usecase.Page
		err  error
	)
	if cursor == "" {
		page, err = h.reader.FetchFirstPage(r.Context(), category)
	} else {
		page, err = h.reader.FetchNextPage(r.Context(), category, cursor)
	}
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCategory) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSONError(w, http.StatusBadGateway, "could not fetch listings")
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(page.Items, page.NextCursor))
}

func (h *Handlers) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrListingNotFound) {
			writeJSONError(w, http.StatusNotFound, "listing not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "could not fetch listing")
		return
	}
	writeJSON(w, http.StatusOK, toListingDTO(listing))
}

func (h *Handlers) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	input, closeFiles, err := parseSubmissionForm(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closeFiles()

	listing, err := h.pipeline.CreateListing(r.Context(), actor, *input)
	if err != nil {
		h.writeSubmissionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListingDTO(listing))
}

func (h *Handlers) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id := chi.URLParam(r, "id")

	input, closeFiles, err := parseSubmissionForm(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closeFiles()

	listing, err := h.pipeline.UpdateListing(r.Context(), actor, id, *input)
	if err != nil {
		h.writeSubmissionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingDTO(listing))
}

func (h *Handlers) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id := chi.URLParam(r, "id")

	err := h.listings.Delete(r.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrListingNotFound):
			writeJSONError(w, http.StatusNotFound, "listing not found")
		case errors.Is(err, usecase.ErrForbidden):
			writeJSONError(w, http.StatusForbidden, "you cannot delete this listing")
		default:
			writeJSONError(w, http.StatusInternalServerError, "could not delete listing")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleMyListings(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	listings, err := h.listings.ListByUser(r.Context(), actor)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, "could not fetch your listings")
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(listings, ""))
}

func (h *Handlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	name := r.FormValue("name")
	if err := h.users.UpdateDisplayName(r.Context(), actor, name); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "could not update your information")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeSubmissionError(w http.ResponseWriter, err error) {
	var subErr *usecase.SubmissionError
	switch {
	case errors.As(err, &subErr):
		status := http.StatusBadRequest
		switch subErr.Stage {
		case usecase.StageResolvingAddress:
			status = http.StatusUnprocessableEntity
		case usecase.StageUploadingImages, usecase.StageCommitting:
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorDTO{
			Error:  subErr.Error(),
			Stage:  string(subErr.Stage),
			Reason: subErr.Reason,
		})
	case errors.Is(err, usecase.ErrListingNotFound):
		writeJSONError(w, http.StatusNotFound, "listing not found")
	case errors.Is(err, usecase.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "you cannot edit this listing")
	default:
		h.logger.Error("unexpected submission failure", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "listing could not be saved")
	}
}

// parseSubmissionForm maps the multipart form onto a SubmissionInput. The
// returned closer releases the opened file parts once the pipeline is done
// reading them.
func parseSubmissionForm(r *http.Request) (*usecase.SubmissionInput, func(), error) {
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		return nil, nil, errors.New("invalid multipart form")
	}

	input := &usecase.SubmissionInput{
		Type:    entity.ListingType(r.FormValue("type")),
		Name:    r.FormValue("name"),
		Address: r.FormValue("address"),
	}

	var err error
	if input.Bedrooms, err = strconv.Atoi(r.FormValue("bedrooms")); err != nil {
		return nil, nil, errors.New("bedrooms must be a number")
	}
	if input.Bathrooms, err = strconv.Atoi(r.FormValue("bathrooms")); err != nil {
		return nil, nil, errors.New("bathrooms must be a number")
	}
	if input.RegularPrice, err = strconv.ParseFloat(r.FormValue("regularPrice"), 64); err != nil {
		return nil, nil, errors.New("regularPrice must be a number")
	}
	input.Parking = r.FormValue("parking") == "true"
	input.Furnished = r.FormValue("furnished") == "true"
	input.Offer = r.FormValue("offer") == "true"
	if input.Offer {
		if input.DiscountedPrice, err = strconv.ParseFloat(r.FormValue("discountedPrice"), 64); err != nil {
			return nil, nil, errors.New("discountedPrice must be a number")
		}
	}

	input.GeocodingEnabled = r.FormValue("geocodingEnabled") != "false"
	if !input.GeocodingEnabled {
		if input.Latitude, err = strconv.ParseFloat(r.FormValue("latitude"), 64); err != nil {
			return nil, nil, errors.New("latitude must be a number")
		}
		if input.Longitude, err = strconv.ParseFloat(r.FormValue("longitude"), 64); err != nil {
			return nil, nil, errors.New("longitude must be a number")
		}
	}

	headers := r.MultipartForm.File["images"]
	opened := make([]multipart.File, 0, len(headers))
	closeFiles := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeFiles()
			return nil, nil, errors.New("could not read uploaded image")
		}
		opened = append(opened, f)
		input.Images = append(input.Images, usecase.ImageFile{
			Name:        fh.Filename,
			Data:        f,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	return input, closeFiles, nil
}
