package telegram

import (
	"strings"
)

// Callback action constants.
const (
	actionQuiz     = "quiz"
	actionLibrary  = "lib"
	actionCategory = "cat"
	actionSettings = "settings"
)

// Quiz sub-actions.
const (
	quizMode   = "mode"
	quizFilter = "filter"
	quizAnswer = "ans"
	quizPickL  = "pickl"
	quizPickR  = "pickr"
	quizNext   = "next"
	quizExit   = "exit"
)

// Library sub-actions.
const (
	libraryPage   = "page"
	libraryToggle = "toggle"
)

// Category sub-actions.
const (
	categoryDelete  = "del"
	categoryConfirm = "confirm"
	categoryCancel  = "cancel"
)

// Settings sub-actions.
const (
	settingsLength = "len"
	settingsStyle  = "style"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func quizCallback(params ...string) string {
	return callbackData{Action: actionQuiz, Params: params}.encode()
}

func libraryCallback(params ...string) string {
	return callbackData{Action: actionLibrary, Params: params}.encode()
}

func categoryCallback(params ...string) string {
	return callbackData{Action: actionCategory, Params: params}.encode()
}

func settingsCallback(params ...string) string {
	return callbackData{Action: actionSettings, Params: params}.encode()
}
