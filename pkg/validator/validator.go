package validator

import (
	"mime"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
)

func Init() {
	validate = validator.New()
	sanitizer = bluemonday.StrictPolicy()

	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("no_html", validateNoHTML)
	v.RegisterValidation("course_status", validateCourseStatus)
}

func Validate(s interface{}) error {
	return validate.Struct(s)
}

// SanitizeString strips all markup from untrusted user input.
func SanitizeString(s string) string {
	if sanitizer == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(sanitizer.Sanitize(s))
}

func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

func ValidatePassword(password string) (bool, string) {
	if len(password) < 6 {
		return false, "password must be at least 6 characters long"
	}

	return true, ""
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}

func validateCourseStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "DRAFT", "PUBLISHED", "ARCHIVED":
		return true
	}
	return false
}

func ValidateFileSize(size int64, maxSize int64) bool {
	return size > 0 && size <= maxSize
}

// ValidateContentType validates that the provided MIME type is in the allowed list.
func ValidateContentType(contentType string, allowedMimeTypes []string) bool {
	if contentType == "" || len(allowedMimeTypes) == 0 {
		return false
	}

	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	for _, allowed := range allowedMimeTypes {
		allowed = strings.ToLower(strings.TrimSpace(allowed))

		if mimeType == allowed {
			return true
		}

		// Wildcard match (e.g., "video/*" matches "video/mp4")
		if strings.HasSuffix(allowed, "/*") {
			prefix := strings.TrimSuffix(allowed, "/*")
			if strings.HasPrefix(mimeType, prefix+"/") {
				return true
			}
		}
	}

	return false
}

// ValidateVideoContentType validates video MIME types accepted by the video host.
func ValidateVideoContentType(contentType string) bool {
	allowedMimeTypes := []string{
		"video/mp4",
		"video/quicktime",
		"video/x-m4v",
		"application/octet-stream",
	}
	return ValidateContentType(contentType, allowedMimeTypes)
}

// ValidateResourceContentType validates document MIME types accepted as lesson resources.
func ValidateResourceContentType(contentType string) bool {
	allowedMimeTypes := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	return ValidateContentType(contentType, allowedMimeTypes)
}

// ValidateImageContentType validates image MIME types accepted as course thumbnails.
func ValidateImageContentType(contentType string) bool {
	allowedMimeTypes := []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	}
	return ValidateContentType(contentType, allowedMimeTypes)
}
