package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/quiz"
)

func (a *API) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var request createSessionRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	setID := strings.TrimSpace(request.SetID)
	var questions []quiz.Question
	switch {
	case setID != "" && len(request.Questions) > 0:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "provide either set_id or questions, not both"})
		return
	case setID != "":
		if a.sets == nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "question bank unavailable"})
			return
		}
		set, err := a.sets.Load(r.Context(), setID)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		questions = set.Questions
	case len(request.Questions) > 0:
		set, err := questionset.FromDocument(questionset.Document{Title: request.Title, Questions: request.Questions})
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		questions = set.Questions
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "set_id or questions is required"})
		return
	}

	opts := []quiz.SessionOption{}
	if request.ExplicitConfirm != nil {
		opts = append(opts, quiz.WithExplicitConfirm(*request.ExplicitConfirm))
	}
	session, err := quiz.NewSession(questions, opts...)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	session.Start()

	sessionID := a.sessions.Create(session, setID)
	a.logger.Info("session started",
		zap.String("session_id", sessionID),
		zap.String("set_id", setID),
		zap.Int("questions", session.Len()),
	)
	writeJSON(w, http.StatusCreated, newSessionResponse(sessionID, setID, session))
}

func (a *API) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	setID, err := a.sessions.SetID(sessionID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	var response sessionResponse
	err = a.sessions.Do(sessionID, func(session *quiz.Session) error {
		response = newSessionResponse(sessionID, setID, session)
		return nil
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Delete(chi.URLParam(r, "session_id")); err != nil {
		a.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var request selectRequest
	if err := decodeJSON(r, &request); err != nil || request.Index == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index and letter are required"})
		return
	}

	a.withSession(w, r, func(sessionID string, session *quiz.Session) (any, error) {
		if err := session.SelectOption(*request.Index, request.Letter); err != nil {
			return nil, err
		}
		return newSessionResponse(sessionID, "", session), nil
	})
}

func (a *API) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	index, ok := decodeIndex(w, r)
	if !ok {
		return
	}

	a.withSession(w, r, func(_ string, session *quiz.Session) (any, error) {
		outcome, err := session.SubmitAnswer(index)
		if err != nil {
			return nil, err
		}
		return submitResponse{
			Outcome:  outcome,
			Feedback: outcome.Feedback(),
			Score:    session.Score(),
		}, nil
	})
}

func (a *API) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(_ string, session *quiz.Session) (any, error) {
		signal := session.Advance()
		return signalResponse{Signal: signal, Message: signal.Message()}, nil
	})
}

func (a *API) HandleGoTo(w http.ResponseWriter, r *http.Request) {
	index, ok := decodeIndex(w, r)
	if !ok {
		return
	}

	a.withSession(w, r, func(sessionID string, session *quiz.Session) (any, error) {
		if err := session.GoTo(index); err != nil {
			return nil, err
		}
		return newSessionResponse(sessionID, "", session), nil
	})
}

func (a *API) HandleFlag(w http.ResponseWriter, r *http.Request) {
	index, ok := decodeIndex(w, r)
	if !ok {
		return
	}

	a.withSession(w, r, func(sessionID string, session *quiz.Session) (any, error) {
		if err := session.ToggleFlag(index); err != nil {
			return nil, err
		}
		return newSessionResponse(sessionID, "", session), nil
	})
}

func (a *API) HandleFinish(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(sessionID string, session *quiz.Session) (any, error) {
		summary, err := session.Finish()
		if err != nil {
			return nil, err
		}
		a.logger.Info("session finished",
			zap.String("session_id", sessionID),
			zap.String("summary", summary.String()),
			zap.Duration("elapsed", session.Timer().Elapsed()),
		)
		return finishResponse{Summary: summary, Elapsed: session.Timer().Display()}, nil
	})
}

func (a *API) HandleRestart(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(sessionID string, session *quiz.Session) (any, error) {
		session.Restart()
		session.Start()
		return newSessionResponse(sessionID, "", session), nil
	})
}

// withSession runs fn under the session lock and writes its result as 200.
func (a *API) withSession(w http.ResponseWriter, r *http.Request, fn func(sessionID string, session *quiz.Session) (any, error)) {
	sessionID := chi.URLParam(r, "session_id")

	var payload any
	err := a.sessions.Do(sessionID, func(session *quiz.Session) error {
		var err error
		payload, err = fn(sessionID, session)
		return err
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func decodeIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	var request indexRequest
	if err := decodeJSON(r, &request); err != nil || request.Index == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index is required"})
		return 0, false
	}
	return *request.Index, true
}

func newSessionResponse(sessionID, setID string, session *quiz.Session) sessionResponse {
	response := sessionResponse{
		SessionID: sessionID,
		SetID:     setID,
		Snapshot:  session.Snapshot(),
	}
	if question, ok := session.Current(); ok {
		public := question.Public()
		response.Current = &public
	}
	return response
}
