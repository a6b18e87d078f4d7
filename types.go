//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"fmt"
	"strings"

	"github.com/obinnaokechukwu/gocef/capi"
)

// Re-export value types passed by pointer across the C boundary.
type (
	// Rect is a rectangle in view or screen coordinates.
	Rect = capi.Rect

	// Size is a width and height.
	Size = capi.Size

	// Point is a position.
	Point = capi.Point

	// Range is a half-open range of character offsets.
	Range = capi.Range

	// ScreenInfo describes the screen a browser is rendered to.
	ScreenInfo = capi.ScreenInfo

	// TouchHandleState describes a touch selection handle.
	TouchHandleState = capi.TouchHandleState
)

// URLRequestStatus mirrors cef_urlrequest_status_t.
type URLRequestStatus int32

const (
	URLRequestUnknown   URLRequestStatus = iota // Unknown status
	URLRequestSuccess                           // Request succeeded
	URLRequestIOPending                         // An IO request is pending
	URLRequestCanceled                          // Request was canceled programmatically
	URLRequestFailed                            // Request failed for some reason
)

// String returns the status name.
func (s URLRequestStatus) String() string {
	switch s {
	case URLRequestUnknown:
		return "unknown"
	case URLRequestSuccess:
		return "success"
	case URLRequestIOPending:
		return "io_pending"
	case URLRequestCanceled:
		return "canceled"
	case URLRequestFailed:
		return "failed"
	default:
		return fmt.Sprintf("URLRequestStatus(%d)", int32(s))
	}
}

// ErrorCode mirrors cef_errorcode_t, Chromium's network error codes.
// Values are negative; 0 is no error.
type ErrorCode int32

// Common network error codes. CEF defines many more; unknown values are
// still carried through and print numerically.
const (
	ErrNone                  ErrorCode = 0
	ErrIOPending             ErrorCode = -1
	ErrFailed                ErrorCode = -2
	ErrAborted               ErrorCode = -3
	ErrInvalidArgument       ErrorCode = -4
	ErrInvalidHandle         ErrorCode = -5
	ErrFileNotFound          ErrorCode = -6
	ErrTimedOut              ErrorCode = -7
	ErrFileTooBig            ErrorCode = -8
	ErrUnexpected            ErrorCode = -9
	ErrAccessDenied          ErrorCode = -10
	ErrNotImplemented        ErrorCode = -11
	ErrConnectionClosed      ErrorCode = -100
	ErrConnectionReset       ErrorCode = -101
	ErrConnectionRefused     ErrorCode = -102
	ErrConnectionAborted     ErrorCode = -103
	ErrConnectionFailed      ErrorCode = -104
	ErrNameNotResolved       ErrorCode = -105
	ErrInternetDisconnected  ErrorCode = -106
	ErrSSLProtocolError      ErrorCode = -107
	ErrAddressInvalid        ErrorCode = -108
	ErrAddressUnreachable    ErrorCode = -109
	ErrConnectionTimedOut    ErrorCode = -118
	ErrCertCommonNameInvalid ErrorCode = -200
	ErrCertDateInvalid       ErrorCode = -201
	ErrCertAuthorityInvalid  ErrorCode = -202
	ErrInvalidURL            ErrorCode = -300
	ErrDisallowedURLScheme   ErrorCode = -301
	ErrUnknownURLScheme      ErrorCode = -302
	ErrTooManyRedirects      ErrorCode = -310
	ErrUnsafeRedirect        ErrorCode = -311
	ErrUnsafePort            ErrorCode = -312
	ErrInvalidResponse       ErrorCode = -320
	ErrEmptyResponse         ErrorCode = -324
	ErrCacheMiss             ErrorCode = -400
	ErrInsecureResponse      ErrorCode = -501
)

var errorCodeNames = map[ErrorCode]string{
	ErrNone:                  "NONE",
	ErrIOPending:             "IO_PENDING",
	ErrFailed:                "FAILED",
	ErrAborted:               "ABORTED",
	ErrInvalidArgument:       "INVALID_ARGUMENT",
	ErrInvalidHandle:         "INVALID_HANDLE",
	ErrFileNotFound:          "FILE_NOT_FOUND",
	ErrTimedOut:              "TIMED_OUT",
	ErrFileTooBig:            "FILE_TOO_BIG",
	ErrUnexpected:            "UNEXPECTED",
	ErrAccessDenied:          "ACCESS_DENIED",
	ErrNotImplemented:        "NOT_IMPLEMENTED",
	ErrConnectionClosed:      "CONNECTION_CLOSED",
	ErrConnectionReset:       "CONNECTION_RESET",
	ErrConnectionRefused:     "CONNECTION_REFUSED",
	ErrConnectionAborted:     "CONNECTION_ABORTED",
	ErrConnectionFailed:      "CONNECTION_FAILED",
	ErrNameNotResolved:       "NAME_NOT_RESOLVED",
	ErrInternetDisconnected:  "INTERNET_DISCONNECTED",
	ErrSSLProtocolError:      "SSL_PROTOCOL_ERROR",
	ErrAddressInvalid:        "ADDRESS_INVALID",
	ErrAddressUnreachable:    "ADDRESS_UNREACHABLE",
	ErrConnectionTimedOut:    "CONNECTION_TIMED_OUT",
	ErrCertCommonNameInvalid: "CERT_COMMON_NAME_INVALID",
	ErrCertDateInvalid:       "CERT_DATE_INVALID",
	ErrCertAuthorityInvalid:  "CERT_AUTHORITY_INVALID",
	ErrInvalidURL:            "INVALID_URL",
	ErrDisallowedURLScheme:   "DISALLOWED_URL_SCHEME",
	ErrUnknownURLScheme:      "UNKNOWN_URL_SCHEME",
	ErrTooManyRedirects:      "TOO_MANY_REDIRECTS",
	ErrUnsafeRedirect:        "UNSAFE_REDIRECT",
	ErrUnsafePort:            "UNSAFE_PORT",
	ErrInvalidResponse:       "INVALID_RESPONSE",
	ErrEmptyResponse:         "EMPTY_RESPONSE",
	ErrCacheMiss:             "CACHE_MISS",
	ErrInsecureResponse:      "INSECURE_RESPONSE",
}

// String returns the Chromium name without the ERR_ prefix.
func (e ErrorCode) String() string {
	if name, ok := errorCodeNames[e]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int32(e))
}

// Error implements error so a non-zero code can be returned directly.
func (e ErrorCode) Error() string {
	return "cef: net error " + e.String()
}

// PaintElementType mirrors cef_paint_element_type_t.
type PaintElementType int32

const (
	PaintView  PaintElementType = iota // The main browser view
	PaintPopup                         // A popup widget such as a select menu
)

// String returns the element name.
func (t PaintElementType) String() string {
	switch t {
	case PaintView:
		return "view"
	case PaintPopup:
		return "popup"
	default:
		return fmt.Sprintf("PaintElementType(%d)", int32(t))
	}
}

// HorizontalAlignment mirrors cef_horizontal_alignment_t.
type HorizontalAlignment int32

const (
	AlignLeft HorizontalAlignment = iota
	AlignCenter
	AlignRight
)

// String returns the alignment name.
func (a HorizontalAlignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return fmt.Sprintf("HorizontalAlignment(%d)", int32(a))
	}
}

// TextInputMode mirrors cef_text_input_mode_t, the kind of virtual
// keyboard requested by an editable element.
type TextInputMode int32

const (
	TextInputDefault TextInputMode = iota
	TextInputNone
	TextInputText
	TextInputTel
	TextInputURL
	TextInputEmail
	TextInputNumeric
	TextInputDecimal
	TextInputSearch
)

var textInputModeNames = [...]string{
	"default", "none", "text", "tel", "url", "email", "numeric", "decimal", "search",
}

// String returns the mode name.
func (m TextInputMode) String() string {
	if m >= 0 && int(m) < len(textInputModeNames) {
		return textInputModeNames[m]
	}
	return fmt.Sprintf("TextInputMode(%d)", int32(m))
}

// DragOperations mirrors cef_drag_operations_mask_t.
type DragOperations uint32

const (
	DragNone    DragOperations = 0
	DragCopy    DragOperations = 1
	DragLink    DragOperations = 2
	DragGeneric DragOperations = 4
	DragPrivate DragOperations = 8
	DragMove    DragOperations = 16
	DragDelete  DragOperations = 32
	DragEvery   DragOperations = ^DragOperations(0)
)

// String returns the set operations joined by "|".
func (d DragOperations) String() string {
	switch d {
	case DragNone:
		return "none"
	case DragEvery:
		return "every"
	}
	names := []struct {
		op   DragOperations
		name string
	}{
		{DragCopy, "copy"},
		{DragLink, "link"},
		{DragGeneric, "generic"},
		{DragPrivate, "private"},
		{DragMove, "move"},
		{DragDelete, "delete"},
	}
	var parts []string
	rest := d
	for _, n := range names {
		if d&n.op != 0 {
			parts = append(parts, n.name)
			rest &^= n.op
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// PreferencesType mirrors cef_preferences_type_t.
type PreferencesType int32

const (
	PreferencesGlobal         PreferencesType = iota // Global preferences
	PreferencesRequestContext                        // Request context preferences
)

// String returns the preferences scope.
func (p PreferencesType) String() string {
	switch p {
	case PreferencesGlobal:
		return "global"
	case PreferencesRequestContext:
		return "request_context"
	default:
		return fmt.Sprintf("PreferencesType(%d)", int32(p))
	}
}

// ProcessID mirrors cef_process_id_t.
type ProcessID int32

const (
	ProcessBrowser  ProcessID = iota // Browser process
	ProcessRenderer                  // Renderer process
)

// String returns the process name.
func (p ProcessID) String() string {
	switch p {
	case ProcessBrowser:
		return "browser"
	case ProcessRenderer:
		return "renderer"
	default:
		return fmt.Sprintf("ProcessID(%d)", int32(p))
	}
}

// WindowOpenDisposition mirrors cef_window_open_disposition_t.
type WindowOpenDisposition int32

const (
	DispositionUnknown WindowOpenDisposition = iota
	DispositionCurrentTab
	DispositionSingletonTab
	DispositionNewForegroundTab
	DispositionNewBackgroundTab
	DispositionNewPopup
	DispositionNewWindow
	DispositionSaveToDisk
	DispositionOffTheRecord
	DispositionIgnoreAction
	DispositionNewPictureInPicture
)

var dispositionNames = [...]string{
	"unknown", "current_tab", "singleton_tab", "new_foreground_tab",
	"new_background_tab", "new_popup", "new_window", "save_to_disk",
	"off_the_record", "ignore_action", "new_picture_in_picture",
}

// String returns the disposition name.
func (d WindowOpenDisposition) String() string {
	if d >= 0 && int(d) < len(dispositionNames) {
		return dispositionNames[d]
	}
	return fmt.Sprintf("WindowOpenDisposition(%d)", int32(d))
}

// LogSeverity mirrors cef_log_severity_t.
type LogSeverity int32

const (
	LogSeverityDefault LogSeverity = 0  // Default logging (currently info)
	LogSeverityVerbose LogSeverity = 1  // Verbose logging
	LogSeverityInfo    LogSeverity = 2  // Info logging
	LogSeverityWarning LogSeverity = 3  // Warning logging
	LogSeverityError   LogSeverity = 4  // Error logging
	LogSeverityFatal   LogSeverity = 5  // Fatal logging
	LogSeverityDisable LogSeverity = 99 // Disable logging to file for all messages
)

// String returns the severity name.
func (l LogSeverity) String() string {
	switch l {
	case LogSeverityDefault:
		return "default"
	case LogSeverityVerbose:
		return "verbose"
	case LogSeverityInfo:
		return "info"
	case LogSeverityWarning:
		return "warning"
	case LogSeverityError:
		return "error"
	case LogSeverityFatal:
		return "fatal"
	case LogSeverityDisable:
		return "disable"
	default:
		return fmt.Sprintf("LogSeverity(%d)", int32(l))
	}
}

// LogItems mirrors cef_log_items_t, the items prepended to each log line.
type LogItems int32

const (
	LogItemsDefault   LogItems = 0
	LogItemsNone      LogItems = 1
	LogItemsProcessID LogItems = 1 << 1
	LogItemsThreadID  LogItems = 1 << 2
	LogItemsTimeStamp LogItems = 1 << 3
	LogItemsTickCount LogItems = 1 << 4
)

// String returns the set items joined by "|".
func (l LogItems) String() string {
	switch l {
	case LogItemsDefault:
		return "default"
	case LogItemsNone:
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		item LogItems
		name string
	}{
		{LogItemsProcessID, "process_id"},
		{LogItemsThreadID, "thread_id"},
		{LogItemsTimeStamp, "time_stamp"},
		{LogItemsTickCount, "tick_count"},
	} {
		if l&f.item != 0 {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("LogItems(%d)", int32(l))
	}
	return strings.Join(parts, "|")
}
