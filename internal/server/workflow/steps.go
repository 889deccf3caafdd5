package workflow

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/landmarkbot/internal/common"
	"github.com/dmitrijs2005/landmarkbot/internal/server/media"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
)

// step applies one input to en and advances its state on success.
func (e *Engine) step(ctx context.Context, en *Entry, in input) ([]Reply, error) {
	if en.Flow == FlowEditAll {
		return e.stepEditAll(ctx, en, in)
	}

	switch en.State {
	case AwaitingLogin:
		return e.stepLogin(en, in)
	case AwaitingPassword:
		return e.stepPassword(ctx, en, in)
	case AwaitingName:
		return e.stepName(ctx, en, in)
	case AwaitingAddress, AwaitingCategory, AwaitingDescription, AwaitingHistory:
		return stepText(en, in)
	case AwaitingLocation:
		return stepLocation(en, in)
	case AwaitingPhoto:
		return stepPhoto(en, in)
	case AwaitingImageName:
		return e.stepImageName(ctx, en, in)
	case SelectField:
		return stepSelectField(en, in)
	case EditValue:
		return e.stepEditValue(ctx, en, in)
	case EditImageName:
		return e.stepEditImageName(ctx, en, in)
	}
	return nil, fmt.Errorf("no transition from state %s", en.State)
}

func (e *Engine) stepLogin(en *Entry, in input) ([]Reply, error) {
	if in.isMedia || !e.sessions.CheckLogin(in.text) {
		return nil, common.ErrAuth
	}
	en.Login = in.text
	en.State = AwaitingPassword
	return []Reply{{Text: msgLoginOK, Secret: true}}, nil
}

func (e *Engine) stepPassword(ctx context.Context, en *Entry, in input) ([]Reply, error) {
	if in.isMedia {
		return nil, common.ErrAuth
	}
	ok, err := e.sessions.Authenticate(ctx, en.UserID, en.Login, in.text)
	if !ok {
		return nil, common.ErrAuth
	}
	if err != nil {
		// the session is live in memory, only its persistence failed
		e.logger.Error(ctx, "session not persisted", "user_id", en.UserID, "error", err)
	}

	en.Login = ""
	en.State = AwaitingName
	return []Reply{text(msgAuthorized)}, nil
}

func (e *Engine) stepName(ctx context.Context, en *Entry, in input) ([]Reply, error) {
	name, err := textValue(in)
	if err != nil {
		return nil, err
	}

	en.Draft.Name = name
	exists, err := e.landmarks.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrDuplicateName
	}

	en.State = AwaitingAddress
	return []Reply{prompt(en)}, nil
}

// stepText captures one of the free-text fields between name and location.
func stepText(en *Entry, in input) ([]Reply, error) {
	v, err := textValue(in)
	if err != nil {
		return nil, err
	}

	switch en.State {
	case AwaitingAddress:
		en.Draft.Address = v
	case AwaitingCategory:
		en.Draft.Category = v
	case AwaitingDescription:
		en.Draft.Description = v
	case AwaitingHistory:
		en.Draft.History = v
	}

	en.State++
	return []Reply{prompt(en)}, nil
}

func stepLocation(en *Entry, in input) ([]Reply, error) {
	if in.isMedia {
		return nil, errNotText
	}
	loc, err := ParseLocation(in.text)
	if err != nil {
		return nil, err
	}
	en.Draft.Location = loc
	en.State = AwaitingPhoto
	return []Reply{prompt(en)}, nil
}

func stepPhoto(en *Entry, in input) ([]Reply, error) {
	ref, err := bestPhoto(in)
	if err != nil {
		return nil, err
	}
	en.Photo = &ref
	en.State = AwaitingImageName
	return []Reply{prompt(en)}, nil
}

// imageName reads and validates the destination file name.
func imageName(in input) (string, error) {
	name, err := textValue(in)
	if err != nil {
		return "", err
	}
	if err := media.ValidateName(name); err != nil {
		return "", fmt.Errorf("%w: %w", errBadName, err)
	}
	return name, nil
}

// stepImageName stores the photo and, only if that worked, the landmark.
func (e *Engine) stepImageName(ctx context.Context, en *Entry, in input) ([]Reply, error) {
	name, err := imageName(in)
	if err != nil {
		return nil, err
	}

	if err := e.media.FetchAndStore(ctx, *en.Photo, name); err != nil {
		return nil, err
	}

	en.Draft.ImageName = name
	id, err := e.landmarks.Create(ctx, &en.Draft)
	if err != nil {
		return nil, err
	}
	en.Draft.ID = id
	en.State = Complete

	e.logger.Info(ctx, "landmark created", "user_id", en.UserID, "id", id, "name", en.Draft.Name)
	return []Reply{
		withContinue(msgSaved + "\n\n" + FormatLandmark(&en.Draft) + "\n\n" + msgAddAnother),
	}, nil
}

func stepSelectField(en *Entry, in input) ([]Reply, error) {
	label, err := textValue(in)
	if err != nil {
		return nil, err
	}
	f, ok := models.ParseField(label)
	if !ok {
		return nil, errBadField
	}
	en.Field = f
	en.State = EditValue
	return []Reply{prompt(en)}, nil
}

func (e *Engine) stepEditValue(ctx context.Context, en *Entry, in input) ([]Reply, error) {
	switch en.Field {
	case models.FieldImageName:
		ref, err := bestPhoto(in)
		if err != nil {
			return nil, err
		}
		en.Photo = &ref
		en.State = EditImageName
		return []Reply{prompt(en)}, nil

	case models.FieldLocation:
		if in.isMedia {
			return nil, errNotText
		}
		loc, err := ParseLocation(in.text)
		if err != nil {
			return nil, err
		}
		return e.applyEdit(ctx, en, models.LocationUpdate{Value: loc})
	}

	v, err := textValue(in)
	if err != nil {
		return nil, err
	}
	u, ok := models.NewTextUpdate(en.Field, v)
	if !ok {
		return nil, fmt.Errorf("field %d is not editable as text", en.Field)
	}
	return e.applyEdit(ctx, en, u)
}

func (e *Engine) stepEditImageName(ctx context.Context, en *Entry, in input) ([]Reply, error) {
	name, err := imageName(in)
	if err != nil {
		return nil, err
	}
	if err := e.media.FetchAndStore(ctx, *en.Photo, name); err != nil {
		return nil, err
	}
	return e.applyEdit(ctx, en, models.ImageNameUpdate{Value: name})
}

// applyEdit writes u and shows the re-fetched record.
func (e *Engine) applyEdit(ctx context.Context, en *Entry, u models.FieldUpdate) ([]Reply, error) {
	u.ApplyTo(&en.Draft)

	ok, err := e.landmarks.UpdateField(ctx, en.TargetID, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrNotFound
	}

	l, err := e.landmarks.GetByID(ctx, en.TargetID)
	if err != nil {
		return nil, err
	}
	en.State = Complete

	e.logger.Info(ctx, "landmark updated", "user_id", en.UserID, "id", en.TargetID, "field", u.Field().Column())
	return []Reply{text(msgEdited + "\n\n" + FormatLandmark(l))}, nil
}

// KeepValue is the answer that leaves a field unchanged in the full-record
// edit.
const KeepValue = "-"

// stepEditAll records one field of the full-record edit. After the
// coordinates the collected patch is written with UpdateAll.
func (e *Engine) stepEditAll(ctx context.Context, en *Entry, in input) ([]Reply, error) {
	v, err := textValue(in)
	if err != nil {
		return nil, err
	}

	if v != KeepValue {
		switch en.State {
		case AwaitingName:
			en.Patch.Name = &v
		case AwaitingAddress:
			en.Patch.Address = &v
		case AwaitingCategory:
			en.Patch.Category = &v
		case AwaitingDescription:
			en.Patch.Description = &v
		case AwaitingHistory:
			en.Patch.History = &v
		case AwaitingLocation:
			loc, err := ParseLocation(v)
			if err != nil {
				return nil, err
			}
			en.Patch.Location = &loc
		default:
			return nil, fmt.Errorf("no full-record edit step in state %s", en.State)
		}
	}

	if en.State != AwaitingLocation {
		en.State++
		return []Reply{prompt(en)}, nil
	}

	// the duplicate reply names the rejected name
	en.Draft = en.Patch.Apply(en.Draft)

	ok, err := e.landmarks.UpdateAll(ctx, en.TargetID, en.Patch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrNotFound
	}

	l, err := e.landmarks.GetByID(ctx, en.TargetID)
	if err != nil {
		return nil, err
	}
	en.State = Complete

	e.logger.Info(ctx, "landmark rewritten", "user_id", en.UserID, "id", en.TargetID)
	return []Reply{text(msgEdited + "\n\n" + FormatLandmark(l))}, nil
}
