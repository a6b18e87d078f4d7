//go:build !ios && !android && (amd64 || arm64)

package capi

// Structures in this file are implemented by CEF. The host only reads their
// slots and calls them. Where a structure is declared as a prefix, the
// trailing slots are never accessed from Go.

// URLRequest mirrors cef_urlrequest_t.
type URLRequest struct {
	Base BaseRefCounted

	GetRequest        uintptr // cef_request_t* (self)
	GetClient         uintptr // cef_urlrequest_client_t* (self)
	GetRequestStatus  uintptr // cef_urlrequest_status_t (self)
	GetRequestError   uintptr // cef_errorcode_t (self)
	GetResponse       uintptr // cef_response_t* (self)
	ResponseWasCached uintptr // int (self)
	Cancel            uintptr // void (self)
}

// AuthCallback mirrors cef_auth_callback_t.
type AuthCallback struct {
	Base BaseRefCounted

	Cont   uintptr // void (self, const cef_string_t* username, const cef_string_t* password)
	Cancel uintptr // void (self)
}

// Browser mirrors cef_browser_t.
type Browser struct {
	Base BaseRefCounted

	IsValid              uintptr // int (self)
	GetHost              uintptr // cef_browser_host_t* (self)
	CanGoBack            uintptr
	GoBack               uintptr
	CanGoForward         uintptr
	GoForward            uintptr
	IsLoading            uintptr
	Reload               uintptr
	ReloadIgnoreCache    uintptr
	StopLoad             uintptr
	GetIdentifier        uintptr // int (self)
	IsSame               uintptr // int (self, cef_browser_t* that)
	IsPopup              uintptr
	HasDocument          uintptr
	GetMainFrame         uintptr
	GetFocusedFrame      uintptr
	GetFrameByIdentifier uintptr
	GetFrame             uintptr
	GetFrameCount        uintptr
	GetFrameIdentifiers  uintptr
	GetFrameNames        uintptr
}

// BrowserHost is a prefix of cef_browser_host_t up to invalidate().
type BrowserHost struct {
	Base BaseRefCounted

	GetBrowser                 uintptr
	CloseBrowser               uintptr // void (self, int force_close)
	TryCloseBrowser            uintptr
	SetFocus                   uintptr
	GetWindowHandle            uintptr
	GetOpenerWindowHandle      uintptr
	HasView                    uintptr
	GetClient                  uintptr
	GetRequestContext          uintptr
	CanZoom                    uintptr
	Zoom                       uintptr
	GetDefaultZoomLevel        uintptr
	GetZoomLevel               uintptr
	SetZoomLevel               uintptr
	RunFileDialog              uintptr
	StartDownload              uintptr
	DownloadImage              uintptr
	Print                      uintptr
	PrintToPDF                 uintptr
	Find                       uintptr
	StopFinding                uintptr
	ShowDevTools               uintptr
	CloseDevTools              uintptr
	HasDevTools                uintptr
	SendDevToolsMessage        uintptr
	ExecuteDevToolsMethod      uintptr
	AddDevToolsMessageObserver uintptr
	GetNavigationEntries       uintptr
	ReplaceMisspelling         uintptr
	AddWordToDictionary        uintptr
	IsWindowRenderingDisabled  uintptr
	WasResized                 uintptr // void (self)
	WasHidden                  uintptr // void (self, int hidden)
	NotifyScreenInfoChanged    uintptr // void (self)
	Invalidate                 uintptr // void (self, cef_paint_element_type_t type)
}

// CommandLine is a prefix of cef_command_line_t up to append_switch_with_value().
type CommandLine struct {
	Base BaseRefCounted

	IsValid               uintptr
	IsReadOnly            uintptr // int (self)
	Copy                  uintptr
	InitFromArgv          uintptr
	InitFromString        uintptr
	Reset                 uintptr
	GetArgv               uintptr
	GetCommandLineString  uintptr
	GetProgram            uintptr
	SetProgram            uintptr
	HasSwitches           uintptr
	HasSwitch             uintptr // int (self, const cef_string_t* name)
	GetSwitchValue        uintptr // cef_string_userfree_t (self, const cef_string_t* name)
	GetSwitches           uintptr
	AppendSwitch          uintptr // void (self, const cef_string_t* name)
	AppendSwitchWithValue uintptr // void (self, const cef_string_t* name, const cef_string_t* value)
}

// Opaque stands for any ref-counted CEF structure whose slots Go never
// calls, such as cef_frame_t or cef_request_t. Only the header is read.
type Opaque struct {
	Base BaseRefCounted
}

// BaseScoped mirrors cef_base_scoped_t. Scoped structures are owned by CEF
// for the duration of a single call and are never reference counted.
type BaseScoped struct {
	Size uintptr
	Del  uintptr // void (self)
}

// SchemeRegistrar mirrors cef_scheme_registrar_t.
type SchemeRegistrar struct {
	Base BaseScoped

	AddCustomScheme uintptr // int (self, const cef_string_t* scheme_name, int options)
}

// PreferenceRegistrar mirrors cef_preference_registrar_t.
type PreferenceRegistrar struct {
	Base BaseScoped

	AddPreference uintptr // int (self, const cef_string_t* name, cef_value_t* default_value)
}
