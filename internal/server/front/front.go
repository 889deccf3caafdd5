// Package front routes inbound chat messages and commands to the intake
// workflow and the landmark catalog.
package front

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/landmarkbot/internal/common"
	"github.com/dmitrijs2005/landmarkbot/internal/logging"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
	"github.com/dmitrijs2005/landmarkbot/internal/server/services"
	"github.com/dmitrijs2005/landmarkbot/internal/server/workflow"
	"github.com/google/uuid"
)

// Conversation is the per-user dialogue driven by the front.
type Conversation interface {
	Start(ctx context.Context, userID int64) []workflow.Reply
	Continue(ctx context.Context, userID int64) []workflow.Reply
	Cancel(ctx context.Context, userID int64) []workflow.Reply
	Logout(ctx context.Context, userID int64) []workflow.Reply
	Edit(ctx context.Context, userID, id int64) []workflow.Reply
	EditAll(ctx context.Context, userID, id int64) []workflow.Reply
	HandleText(ctx context.Context, userID int64, msg string) []workflow.Reply
	HandleMedia(ctx context.Context, userID int64, refs []models.MediaRef) []workflow.Reply
}

// Catalog serves the read and delete commands.
type Catalog interface {
	ListPage(ctx context.Context, page, size int) (*services.Page, error)
	ListAll(ctx context.Context) ([]*models.Landmark, error)
	GetByName(ctx context.Context, name string) (*models.Landmark, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

type Authorizer interface {
	IsAuthorized(ctx context.Context, userID int64) bool
}

// Command names understood by OnCommand.
const (
	CmdStart    = "start"
	CmdCancel   = "cancel"
	CmdLogout   = "logout"
	CmdContinue = "continue"
	CmdList     = "list"
	CmdDelete   = "delete"
	CmdEdit     = "edit"
	CmdEditAll  = "editall"
	CmdShow     = "show"
	CmdHelp     = "help"
)

const helpText = `Доступные команды:
/start - авторизация и добавление достопримечательности
/continue - добавить еще одну достопримечательность
/cancel - отменить текущую операцию
/list [страница|all] - список достопримечательностей
/show <название> - карточка достопримечательности
/edit <id> - изменить одно поле достопримечательности
/editall <id> - изменить все поля по очереди
/delete <id> - удалить достопримечательность
/logout - выйти из системы
/help - эта справка`

const (
	msgUnknownCommand = "Неизвестная команда. Введите /help для списка команд."
	msgNotAuthorized  = "❌ Вы не авторизованы! Введите /start для авторизации."
	msgUsageDelete    = "Использование: /delete <id>"
	msgUsageEdit      = "Использование: /edit <id>"
	msgUsageEditAll   = "Использование: /editall <id>"
	msgUsageList      = "Использование: /list [страница|all]"
	msgUsageShow      = "Использование: /show <название>"
	msgNoSuchName     = "❌ Достопримечательность «%s» не найдена."
	msgEmptyList      = "Список достопримечательностей пуст."
	msgDeleted        = "🗑️ Достопримечательность с ID %d удалена."
	msgNotFound       = "❌ Достопримечательность с ID %d не найдена."
	msgStorageFailure = "⚠️ Ошибка при работе с базой данных. Попробуйте позже."
)

type Front struct {
	conv     Conversation
	catalog  Catalog
	auth     Authorizer
	logger   logging.Logger
	locks    *keyedMutex
	pageSize int
}

func NewFront(conv Conversation, catalog Catalog, auth Authorizer, logger logging.Logger) *Front {
	return &Front{
		conv:     conv,
		catalog:  catalog,
		auth:     auth,
		logger:   logger,
		locks:    newKeyedMutex(),
		pageSize: services.DefaultPageSize,
	}
}

// begin serializes the user's messages and tags ctx with a fresh
// correlation id.
func (f *Front) begin(ctx context.Context, userID int64, kind string) (context.Context, func()) {
	unlock := f.locks.Lock(userID)
	ctx = logging.WithCorrelationID(ctx, uuid.NewString())
	f.logger.Debug(ctx, "message received", "user_id", userID, "kind", kind)
	return ctx, unlock
}

// OnTextMessage handles a plain text message. The continue keyboard button
// is treated as the continue command.
func (f *Front) OnTextMessage(ctx context.Context, userID int64, text string) []workflow.Reply {
	ctx, unlock := f.begin(ctx, userID, "text")
	defer unlock()

	if strings.TrimSpace(text) == workflow.ContinueButton {
		return f.conv.Continue(ctx, userID)
	}
	return f.conv.HandleText(ctx, userID, text)
}

// OnMediaMessage handles a photo, delivered as all of its size variants.
func (f *Front) OnMediaMessage(ctx context.Context, userID int64, refs []models.MediaRef) []workflow.Reply {
	ctx, unlock := f.begin(ctx, userID, "media")
	defer unlock()

	return f.conv.HandleMedia(ctx, userID, refs)
}

// OnCommand handles a slash command. name is given without the slash.
func (f *Front) OnCommand(ctx context.Context, userID int64, name string, args []string) []workflow.Reply {
	ctx, unlock := f.begin(ctx, userID, "command")
	defer unlock()

	switch strings.ToLower(strings.TrimPrefix(name, "/")) {
	case CmdStart:
		return f.conv.Start(ctx, userID)
	case CmdCancel:
		return f.conv.Cancel(ctx, userID)
	case CmdLogout:
		return f.conv.Logout(ctx, userID)
	case CmdContinue:
		return f.conv.Continue(ctx, userID)
	case CmdList:
		return f.list(ctx, userID, args)
	case CmdDelete:
		return f.delete(ctx, userID, args)
	case CmdEdit:
		id, ok := parseID(args)
		if !ok {
			return reply(msgUsageEdit)
		}
		return f.conv.Edit(ctx, userID, id)
	case CmdEditAll:
		id, ok := parseID(args)
		if !ok {
			return reply(msgUsageEditAll)
		}
		return f.conv.EditAll(ctx, userID, id)
	case CmdShow:
		return f.show(ctx, userID, args)
	case CmdHelp:
		return reply(helpText)
	}
	return reply(msgUnknownCommand)
}

// listAllArg asks /list for the whole catalog on one page.
const listAllArg = "all"

func (f *Front) list(ctx context.Context, userID int64, args []string) []workflow.Reply {
	if len(args) > 0 && strings.EqualFold(args[0], listAllArg) {
		return f.listAll(ctx, userID)
	}

	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return reply(msgUsageList)
		}
		page = n
	}

	p, err := f.catalog.ListPage(ctx, page, f.pageSize)
	if err != nil {
		f.logger.Error(ctx, "list failed", "user_id", userID, "page", page, "error", err)
		return reply(msgStorageFailure)
	}
	return reply(FormatPage(p))
}

func (f *Front) listAll(ctx context.Context, userID int64) []workflow.Reply {
	items, err := f.catalog.ListAll(ctx)
	if err != nil {
		f.logger.Error(ctx, "list all failed", "user_id", userID, "error", err)
		return reply(msgStorageFailure)
	}
	return reply(FormatPage(&services.Page{Items: items, Number: 1, Size: len(items), Total: len(items)}))
}

// show prints one landmark looked up by its exact name. The name may
// contain spaces.
func (f *Front) show(ctx context.Context, userID int64, args []string) []workflow.Reply {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return reply(msgUsageShow)
	}

	l, err := f.catalog.GetByName(ctx, name)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return reply(fmt.Sprintf(msgNoSuchName, name))
	case err != nil:
		f.logger.Error(ctx, "show failed", "user_id", userID, "name", name, "error", err)
		return reply(msgStorageFailure)
	}
	return reply(workflow.FormatLandmark(l))
}

func (f *Front) delete(ctx context.Context, userID int64, args []string) []workflow.Reply {
	id, ok := parseID(args)
	if !ok {
		return reply(msgUsageDelete)
	}
	if !f.auth.IsAuthorized(ctx, userID) {
		return reply(msgNotAuthorized)
	}

	deleted, err := f.catalog.DeleteByID(ctx, id)
	switch {
	case errors.Is(err, common.ErrNotFound), err == nil && !deleted:
		return reply(fmt.Sprintf(msgNotFound, id))
	case err != nil:
		f.logger.Error(ctx, "delete failed", "user_id", userID, "id", id, "error", err)
		return reply(msgStorageFailure)
	}

	f.logger.Info(ctx, "landmark deleted", "user_id", userID, "id", id)
	return reply(fmt.Sprintf(msgDeleted, id))
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func reply(s string) []workflow.Reply {
	return []workflow.Reply{{Text: s}}
}

// FormatPage renders one page of the landmark list, one line per landmark.
func FormatPage(p *services.Page) string {
	if p.Total == 0 {
		return msgEmptyList
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Достопримечательности (страница %d из %d, всего %d):\n", p.Number, p.Pages(), p.Total)
	for _, l := range p.Items {
		fmt.Fprintf(&b, "\n%d. %s [%s] %s", l.ID, l.Name, l.Category, l.Address)
	}
	if len(p.Items) == 0 {
		b.WriteString("\nНа этой странице ничего нет.")
	}
	return b.String()
}
