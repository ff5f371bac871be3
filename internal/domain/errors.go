package domain

// ErrorKind classifies what a client should tell the user.
type ErrorKind string

const (
	ErrorNoSpeech     ErrorKind = "no_speech"
	ErrorNoResult     ErrorKind = "no_result"
	ErrorNetwork      ErrorKind = "network_error"
	ErrorAPI          ErrorKind = "api_error"
	ErrorInvalidInput ErrorKind = "invalid_request"
)

var errorMessages = map[string]map[ErrorKind]string{
	"vi": {
		ErrorNoSpeech:     "Không phát hiện giọng nói. Vui lòng thử lại.",
		ErrorNoResult:     "Không tìm thấy bài hát phù hợp.",
		ErrorNetwork:      "Không có kết nối mạng.",
		ErrorAPI:          "Lỗi kết nối API. Vui lòng thử lại.",
		ErrorInvalidInput: "Yêu cầu không hợp lệ.",
	},
	"en": {
		ErrorNoSpeech:     "No speech detected. Please try again.",
		ErrorNoResult:     "No matching song found.",
		ErrorNetwork:      "No network connection.",
		ErrorAPI:          "API connection error. Please try again.",
		ErrorInvalidInput: "Invalid request.",
	},
}

// ErrorMessage returns the localized user-facing text, falling back to Vietnamese.
func ErrorMessage(kind ErrorKind, lang Language) string {
	if msg, ok := errorMessages[lang.Short()][kind]; ok {
		return msg
	}
	return errorMessages["vi"][kind]
}
