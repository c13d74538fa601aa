package i18n

import "context"

// System message keys. These texts are built into the bot rather than the
// translations table: they must be available even when the question graph
// or its localization is broken.
const (
	MsgPhoneRequest    = "msg.phone_request"
	MsgThanks          = "msg.thanks"
	MsgWaiting         = "msg.waiting"
	MsgInvalidOption   = "msg.invalid_option"
	MsgUnknownLanguage = "msg.unknown_language"
	MsgStopped         = "msg.stopped"
	MsgStartHint       = "msg.start_hint"
	MsgKeyboardCleared = "msg.keyboard_cleared"
	MsgStepFailed      = "msg.step_failed"
)

var systemMessages = map[string]map[Language]string{
	MsgPhoneRequest: {
		AZ: "Zəhmət olmasa telefon nömrənizi bizimlə paylaşın:",
		EN: "Please share your phone number with us:",
		RU: "Пожалуйста, поделитесь с нами своим номером телефона:",
	},
	MsgThanks: {
		AZ: "Bizə etibar etdiyiniz üçün təşəkkürlər, %s!",
		EN: "Thank you for trusting us, %s!",
		RU: "Спасибо за доверие, %s!",
	},
	MsgWaiting: {
		AZ: "Sorğunuz qeydə alındı. Ən qısa zamanda təkliflər sizə göndəriləcək.",
		EN: "Your request has been recorded. Offers will be sent to you as soon as possible.",
		RU: "Ваш запрос записан. Предложения будут отправлены вам как можно скорее.",
	},
	MsgInvalidOption: {
		AZ: "Zəhmət olmasa variantlardan birini seçin",
		EN: "Please enter a valid option",
		RU: "Пожалуйста, выберите один из вариантов",
	},
	MsgUnknownLanguage: {
		AZ: "Zəhmət olmasa mövcud dillərdən birini seçin",
		EN: "Please choose one of available languages",
		RU: "Пожалуйста, выберите один из доступных языков",
	},
	MsgStopped: {
		AZ: "Söhbət dayandırıldı.",
		EN: "Chat stopped.",
		RU: "Чат остановлен.",
	},
	MsgStartHint: {
		AZ: "Başlamaq üçün /start yazın",
		EN: "Enter /start to begin",
		RU: "Введите /start, чтобы начать",
	},
	MsgKeyboardCleared: {
		AZ: "Oldu",
		EN: "Okay",
		RU: "Хорошо",
	},
	MsgStepFailed: {
		AZ: "Nəsə səhv getdi. Bir az sonra yenidən cəhd edin...",
		EN: "Something went wrong. Try again later...",
		RU: "Что-то пошло не так. Попробуйте позже...",
	},
}

// Messages is the Translator for built-in system texts.
type Messages struct{}

func NewMessages() Messages { return Messages{} }

func (Messages) Translate(_ context.Context, key string, lang Language) (string, error) {
	byLang, ok := systemMessages[key]
	if !ok {
		return "", ErrMissingTranslation
	}
	text, ok := byLang[lang]
	if !ok {
		return "", ErrMissingTranslation
	}
	return text, nil
}

func (Messages) ReverseLookup(_ context.Context, text string) (string, error) {
	for key, byLang := range systemMessages {
		for _, t := range byLang {
			if t == text {
				return key, nil
			}
		}
	}
	return "", ErrUnknownText
}
