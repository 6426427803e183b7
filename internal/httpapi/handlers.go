package httpapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/quiz"
)

const defaultListLimit = 20

func (a *API) HandleListSets(w http.ResponseWriter, r *http.Request) {
	if a.sets == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "question bank unavailable"})
		return
	}

	limit, err := parseIntParam(r, "limit", defaultListLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sets, err := a.sets.List(r.Context(), limit)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	response := setsResponse{Sets: make([]setSummaryResponse, 0, len(sets))}
	for _, meta := range sets {
		response.Sets = append(response.Sets, toSetSummary(meta))
	}
	writeJSON(w, http.StatusOK, response)
}

// HandleImportSet accepts a question document in JSON, or YAML when the
// Content-Type says so.
func (a *API) HandleImportSet(w http.ResponseWriter, r *http.Request) {
	if a.sets == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "question bank unavailable"})
		return
	}

	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read body"})
		return
	}

	format := questionset.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = questionset.FormatYAML
	}

	set, err := questionset.Parse(data, format)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	set.Source = questionset.SourceInline

	meta, err := a.sets.Import(r.Context(), set)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSetSummary(meta))
}

func (a *API) HandleImportOpenTDB(w http.ResponseWriter, r *http.Request) {
	if a.sets == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "question bank unavailable"})
		return
	}

	var request importOpenTDBRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	meta, err := a.sets.ImportOpenTDB(r.Context(), request.Title, request.Amount)
	if err != nil {
		if isValidation(err) {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch trivia questions"})
		return
	}
	writeJSON(w, http.StatusCreated, toSetSummary(meta))
}

func (a *API) HandleGetSet(w http.ResponseWriter, r *http.Request) {
	if a.sets == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "question bank unavailable"})
		return
	}

	set, err := a.sets.Load(r.Context(), chi.URLParam(r, "set_id"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	response := setResponse{
		setSummaryResponse: toSetSummary(set.SetMetadata),
		Questions:          make([]quiz.PublicQuestion, 0, len(set.Questions)),
	}
	for _, question := range set.Questions {
		response.Questions = append(response.Questions, question.Public())
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleDeleteSet(w http.ResponseWriter, r *http.Request) {
	if a.sets == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "question bank unavailable"})
		return
	}

	if err := a.sets.Delete(r.Context(), chi.URLParam(r, "set_id")); err != nil {
		a.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
