package helpers

import (
	"encoding/json"
	"net/http"
)

// Message — flash-сообщение, показанное вместе с view.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type Response struct {
	Data     interface{}       `json:"data,omitempty"`
	Error    string            `json:"error,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Messages []Message         `json:"messages,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	Write(w, status, Response{Data: data})
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	Write(w, status, Response{Error: errMsg})
}

// FormErrors — 400 с ошибками по полям формы; data несёт view для повторного показа.
func FormErrors(w http.ResponseWriter, data interface{}, fields map[string]string) {
	Write(w, http.StatusBadRequest, Response{Data: data, Error: "validation failed", Fields: fields})
}

func Write(w http.ResponseWriter, status int, resp Response) {
	Raw(w, status, resp)
}

// Raw пишет payload без конверта (ответы для XHR-клиентов).
func Raw(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		return
	}
}
