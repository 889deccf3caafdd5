package workflow

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
)

// ContinueButton is the keyboard button that re-enters the intake flow.
const ContinueButton = "Продолжить добавление"

// Reply is one outbound message.
type Reply struct {
	Text string
	// Secret marks a prompt whose answer should not be echoed (passwords).
	Secret bool
	// Buttons is an optional reply keyboard.
	Buttons []string
}

func text(s string) Reply { return Reply{Text: s} }

func withContinue(s string) Reply {
	return Reply{Text: s, Buttons: []string{ContinueButton}}
}

func fieldButtons() []string {
	labels := make([]string, 0, len(models.Fields))
	for _, f := range models.Fields {
		labels = append(labels, f.Label())
	}
	return labels
}

const (
	msgWelcome        = "🏛️ Добро пожаловать в систему управления достопримечательностями!\nВведите ваш логин:"
	msgLoginOK        = "✅ Логин верный. Теперь введите пароль:"
	msgBadLogin       = "❌ Неверный логин. Попробуйте снова:"
	msgBadPassword    = "❌ Неверный пароль. Попробуйте снова:"
	msgAuthorized     = "🔓 Авторизация успешна!\n\nВведите название достопримечательности:"
	msgAlreadyAuthed  = "🔓 Вы уже авторизованы!\n\nВведите название новой достопримечательности:"
	msgNewName        = "Введите название новой достопримечательности:"
	msgNotAuthorized  = "❌ Вы не авторизованы! Введите /start для авторизации."
	msgCancelled      = "❌ Операция отменена."
	msgLoggedOut      = "🔒 Вы вышли из системы. Для доступа требуется повторная авторизация."
	msgNoActiveFlow   = "Нет активной операции. Введите /start, чтобы добавить достопримечательность."
	msgPhotoUnneeded  = "Сейчас фотография не ожидается."
	msgAddress        = "🏠 Введите адрес достопримечательности:"
	msgCategory       = "🏷️ Введите категорию достопримечательности:"
	msgDescription    = "📝 Введите описание достопримечательности:"
	msgHistory        = "📜 Введите историю достопримечательности:"
	msgLocation       = "📍 Введите координаты достопримечательности в формате:\nширота, долгота\n\nПример: 55.755826, 37.617300"
	msgBadLocation    = "❌ Неверный формат координат. Пожалуйста, введите в формате:\nширота, долгота\n\nПример: 55.755826, 37.617300"
	msgPhoto          = "📸 Отправьте фотографию достопримечательности:"
	msgNoPhoto        = "❌ Пожалуйста, отправьте фотографию."
	msgImageName      = "🖼️ Введите имя файла для фотографии (например, redsquare.jpg):"
	msgBadImageName   = "❌ Некорректное имя файла. Используйте имя без каталогов, например redsquare.jpg:"
	msgEmptyValue     = "❌ Значение не может быть пустым."
	msgNeedText       = "❌ Ожидается текстовое сообщение."
	msgSelectField    = "✏️ Выберите поле для редактирования:"
	msgBadField       = "❌ Выберите поле из списка:"
	msgSaved          = "✅ Достопримечательность сохранена!"
	msgAddAnother     = "Хотите добавить еще одну достопримечательность?"
	msgEdited         = "✅ Изменения сохранены!"
	msgKeepHint       = "(отправьте «-», чтобы оставить текущее значение)"
	msgDuplicate      = "❌ Ошибка: Достопримечательность с названием '%s' уже существует!"
	msgNotFound       = "❌ Достопримечательность с ID %d не найдена."
	msgMediaFailed    = "❌ Не удалось сохранить фотографию. Запись не сохранена."
	msgStorageFailure = "⚠️ Ошибка при работе с базой данных. Попробуйте позже."
)

// prompt asks for the input expected in the entry's current state.
func prompt(en *Entry) Reply {
	r := basePrompt(en)
	if en.Flow == FlowEditAll {
		r.Text += "\n" + msgKeepHint
	}
	return r
}

func basePrompt(en *Entry) Reply {
	switch en.State {
	case AwaitingLogin:
		return text("Введите ваш логин:")
	case AwaitingPassword:
		return Reply{Text: "Введите пароль:", Secret: true}
	case AwaitingName:
		return text("Введите название достопримечательности:")
	case AwaitingAddress:
		return text(msgAddress)
	case AwaitingCategory:
		return text(msgCategory)
	case AwaitingDescription:
		return text(msgDescription)
	case AwaitingHistory:
		return text(msgHistory)
	case AwaitingLocation:
		return text(msgLocation)
	case AwaitingPhoto:
		return text(msgPhoto)
	case AwaitingImageName, EditImageName:
		return text(msgImageName)
	case SelectField:
		return Reply{Text: msgSelectField, Buttons: fieldButtons()}
	case EditValue:
		switch en.Field {
		case models.FieldLocation:
			return text(msgLocation)
		case models.FieldImageName:
			return text(msgPhoto)
		}
		return text(fmt.Sprintf("✏️ Введите новое значение поля «%s»:", en.Field.Label()))
	}
	return text(msgNoActiveFlow)
}

// FormatLandmark renders a landmark as a multi-line card.
func FormatLandmark(l *models.Landmark) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %d\n", l.ID)
	fmt.Fprintf(&b, "%s: %s\n", models.FieldName.Label(), l.Name)
	fmt.Fprintf(&b, "%s: %s\n", models.FieldAddress.Label(), l.Address)
	fmt.Fprintf(&b, "%s: %s\n", models.FieldCategory.Label(), l.Category)
	fmt.Fprintf(&b, "%s: %s\n", models.FieldDescription.Label(), l.Description)
	fmt.Fprintf(&b, "%s: %s\n", models.FieldHistory.Label(), l.History)
	fmt.Fprintf(&b, "%s: %s\n", models.FieldLocation.Label(), l.Location)
	fmt.Fprintf(&b, "%s: %s", models.FieldImageName.Label(), l.ImageName)
	return b.String()
}
