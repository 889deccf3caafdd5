// Package workflow implements the per-user conversation that collects a
// landmark field by field (intake) or changes one field of an existing
// landmark (edit).
//
// The engine is an explicit state machine: every inbound message is applied
// to the user's Entry as (state, input) -> (next state, replies, error) and
// the entry is stored again. Nothing blocks between messages.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/landmarkbot/internal/common"
	"github.com/dmitrijs2005/landmarkbot/internal/logging"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
)

// Sessions is the authorization surface the engine needs.
type Sessions interface {
	CheckLogin(login string) bool
	Authenticate(ctx context.Context, userID int64, login, password string) (bool, error)
	IsAuthorized(ctx context.Context, userID int64) bool
	Logout(ctx context.Context, userID int64) error
}

// Landmarks is the persistence surface the engine needs.
type Landmarks interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, l *models.Landmark) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Landmark, error)
	UpdateField(ctx context.Context, id int64, u models.FieldUpdate) (bool, error)
	UpdateAll(ctx context.Context, id int64, patch models.LandmarkPatch) (bool, error)
}

// MediaStore persists the photo chosen by the operator.
type MediaStore interface {
	FetchAndStore(ctx context.Context, ref models.MediaRef, name string) error
}

type Engine struct {
	sessions  Sessions
	landmarks Landmarks
	media     MediaStore
	entries   EntryStore
	logger    logging.Logger
}

func NewEngine(sessions Sessions, landmarks Landmarks, media MediaStore, entries EntryStore, logger logging.Logger) *Engine {
	return &Engine{
		sessions:  sessions,
		landmarks: landmarks,
		media:     media,
		entries:   entries,
		logger:    logger,
	}
}

// input is one inbound message: either text or a set of photo variants.
type input struct {
	text    string
	media   []models.MediaRef
	isMedia bool
}

// Current returns the active entry of userID, if any.
func (e *Engine) Current(userID int64) (Entry, bool) {
	return e.entries.Get(userID)
}

// Start begins a fresh intake, replacing any entry in progress.
func (e *Engine) Start(ctx context.Context, userID int64) []Reply {
	en := Entry{UserID: userID, Flow: FlowIntake, State: AwaitingLogin}
	reply := text(msgWelcome)

	if e.sessions.IsAuthorized(ctx, userID) {
		en.State = AwaitingName
		reply = text(msgAlreadyAuthed)
	}

	e.entries.Put(en)
	e.logger.Debug(ctx, "intake started", "user_id", userID, "state", en.State)
	return []Reply{reply}
}

// Continue re-enters the intake after a finished or aborted one. Without a
// valid session the user is sent back to /start.
func (e *Engine) Continue(ctx context.Context, userID int64) []Reply {
	if !e.sessions.IsAuthorized(ctx, userID) {
		e.entries.Delete(userID)
		return []Reply{text(msgNotAuthorized)}
	}

	e.entries.Put(Entry{UserID: userID, Flow: FlowIntake, State: AwaitingName})
	return []Reply{text(msgNewName)}
}

// Cancel discards the entry in progress.
func (e *Engine) Cancel(ctx context.Context, userID int64) []Reply {
	if en, ok := e.entries.Get(userID); ok {
		e.logger.Debug(ctx, "entry cancelled", "user_id", userID, "flow", en.Flow, "state", en.State)
	}
	e.entries.Delete(userID)
	return []Reply{text(msgCancelled)}
}

// Logout discards the entry in progress and invalidates the session.
func (e *Engine) Logout(ctx context.Context, userID int64) []Reply {
	e.entries.Delete(userID)
	if err := e.sessions.Logout(ctx, userID); err != nil {
		e.logger.Error(ctx, "failed to persist logout", "user_id", userID, "error", err)
	}
	return []Reply{text(msgLoggedOut)}
}

// Edit starts the edit sub-flow for landmark id. A rejected edit leaves any
// entry in progress untouched.
func (e *Engine) Edit(ctx context.Context, userID, id int64) []Reply {
	en := &Entry{UserID: userID, Flow: FlowEdit, State: SelectField, TargetID: id}

	if !e.sessions.IsAuthorized(ctx, userID) {
		return []Reply{e.failure(ctx, en, common.ErrUnauthorized)}
	}

	l, err := e.landmarks.GetByID(ctx, id)
	if err != nil {
		return []Reply{e.failure(ctx, en, err)}
	}
	en.Draft = *l

	return e.render(ctx, en, []Reply{
		text(FormatLandmark(l)),
		prompt(en),
	}, nil)
}

// EditAll starts the full-record edit of landmark id: every text field and
// the coordinates are asked in intake order, "-" keeps the current value.
func (e *Engine) EditAll(ctx context.Context, userID, id int64) []Reply {
	en := &Entry{UserID: userID, Flow: FlowEditAll, State: AwaitingName, TargetID: id}

	if !e.sessions.IsAuthorized(ctx, userID) {
		return []Reply{e.failure(ctx, en, common.ErrUnauthorized)}
	}

	l, err := e.landmarks.GetByID(ctx, id)
	if err != nil {
		return []Reply{e.failure(ctx, en, err)}
	}
	en.Draft = *l

	return e.render(ctx, en, []Reply{
		text(FormatLandmark(l)),
		prompt(en),
	}, nil)
}

// HandleText applies a text message to the user's entry.
func (e *Engine) HandleText(ctx context.Context, userID int64, msg string) []Reply {
	return e.handle(ctx, userID, input{text: msg})
}

// HandleMedia applies a photo message (all resolution variants) to the
// user's entry.
func (e *Engine) HandleMedia(ctx context.Context, userID int64, refs []models.MediaRef) []Reply {
	return e.handle(ctx, userID, input{media: refs, isMedia: true})
}

func (e *Engine) handle(ctx context.Context, userID int64, in input) []Reply {
	en, ok := e.entries.Get(userID)
	if !ok {
		if in.isMedia {
			return []Reply{text(msgPhotoUnneeded)}
		}
		return []Reply{text(msgNoActiveFlow)}
	}

	if en.State.needsSession() && !e.sessions.IsAuthorized(ctx, userID) {
		return e.render(ctx, &en, nil, common.ErrUnauthorized)
	}

	from := en.State
	replies, err := e.step(ctx, &en, in)
	if en.State != from {
		e.logger.Debug(ctx, "state transition", "user_id", userID, "flow", en.Flow, "from", from, "to", en.State)
	}
	return e.render(ctx, &en, replies, err)
}

// render is the single place where step errors become replies. Auth and
// validation errors keep the entry in its state and re-prompt; every other
// error ends the attempt and discards the entry.
func (e *Engine) render(ctx context.Context, en *Entry, replies []Reply, err error) []Reply {
	switch {
	case err == nil:
		if en.State == Complete {
			e.entries.Delete(en.UserID)
		} else {
			e.entries.Put(*en)
		}
		return replies

	case recoverable(err):
		e.entries.Put(*en)
		return []Reply{retry(en, err)}
	}

	e.entries.Delete(en.UserID)
	return []Reply{e.failure(ctx, en, err)}
}

// failure builds the reply for an error that ends the attempt.
func (e *Engine) failure(ctx context.Context, en *Entry, err error) Reply {
	var reply Reply
	switch {
	case errors.Is(err, common.ErrDuplicateName):
		reply = text(fmt.Sprintf(msgDuplicate, en.Draft.Name))
	case errors.Is(err, common.ErrNotFound):
		reply = text(fmt.Sprintf(msgNotFound, en.TargetID))
	case errors.Is(err, common.ErrUnauthorized):
		return text(msgNotAuthorized)
	case errors.Is(err, common.ErrMedia):
		e.logger.Warn(ctx, "photo not stored", "user_id", en.UserID, "error", err)
		reply = text(msgMediaFailed)
	default:
		e.logger.Error(ctx, "workflow aborted", "user_id", en.UserID, "flow", en.Flow, "state", en.State, "error", err)
		reply = text(msgStorageFailure)
	}

	if en.Flow == FlowIntake {
		reply.Buttons = []string{ContinueButton}
	}
	return reply
}

func recoverable(err error) bool {
	if errors.Is(err, common.ErrMedia) {
		return false
	}
	return errors.Is(err, common.ErrAuth) || errors.Is(err, common.ErrValidation)
}

// retry builds the re-prompt for a recoverable error in en's state.
func retry(en *Entry, err error) Reply {
	switch en.State {
	case AwaitingLogin:
		return text(msgBadLogin)
	case AwaitingPassword:
		return Reply{Text: msgBadPassword, Secret: true}
	}

	switch {
	case errors.Is(err, errNotText):
		return withPrefix(msgNeedText, prompt(en))
	case errors.Is(err, errEmptyText):
		return withPrefix(msgEmptyValue, prompt(en))
	case errors.Is(err, errBadCoords):
		return text(msgBadLocation)
	case errors.Is(err, errNoPhoto):
		return text(msgNoPhoto)
	case errors.Is(err, errBadName):
		return text(msgBadImageName)
	case errors.Is(err, errBadField):
		return Reply{Text: msgBadField, Buttons: fieldButtons()}
	}
	return prompt(en)
}

func withPrefix(prefix string, r Reply) Reply {
	r.Text = prefix + "\n" + r.Text
	return r
}
