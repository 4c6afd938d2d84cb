package appcore

import (
	"encoding/json"
	"strconv"

	"tutorial/internal/markdown"
)

type TutorialSignalState struct {
	File string `json:"file"`
}

func TutorialSignalsJSON(view TutorialPageView) string {
	return marshalSignals(TutorialSignalState{File: view.SelectedFile})
}

func marshalSignals[T interface{}](value T) string {
	payload, err := json.Marshal(value)
	if err != nil {
		return "{}"
	}

	return string(payload)
}

func FileTabClass(active bool) string {
	if active {
		return "file-tab active"
	}
	return "file-tab"
}

func FileTabAction(slug string, file string) string {
	return "$file=" + strconv.Quote(file) + "; @get('" + BuildTutorialLiveURL(slug) + "')"
}

func ChromaStyleTag() string {
	return "<style>" + string(markdown.ChromaCSS()) + "</style>"
}
