//go:build !ios && !android && (amd64 || arm64)

package capi

// Structures in this file are implemented by the host application and
// handed to CEF. Each slot comment gives the C signature the trampoline
// installed there must match.

// App mirrors cef_app_t.
type App struct {
	Base BaseRefCounted

	// void (self, const cef_string_t* process_type, cef_command_line_t* command_line)
	OnBeforeCommandLineProcessing uintptr
	// void (self, cef_scheme_registrar_t* registrar)
	OnRegisterCustomSchemes uintptr
	// cef_resource_bundle_handler_t* (self)
	GetResourceBundleHandler uintptr
	// cef_browser_process_handler_t* (self)
	GetBrowserProcessHandler uintptr
	// cef_render_process_handler_t* (self)
	GetRenderProcessHandler uintptr
}

// BrowserProcessHandler mirrors cef_browser_process_handler_t.
type BrowserProcessHandler struct {
	Base BaseRefCounted

	// void (self, cef_preferences_type_t type, cef_preference_registrar_t* registrar)
	OnRegisterCustomPreferences uintptr
	// void (self)
	OnContextInitialized uintptr
	// void (self, cef_command_line_t* command_line)
	OnBeforeChildProcessLaunch uintptr
	// int (self, cef_command_line_t* command_line, const cef_string_t* current_directory)
	OnAlreadyRunningAppRelaunch uintptr
	// void (self, int64_t delay_ms)
	OnScheduleMessagePumpWork uintptr
	// cef_client_t* (self)
	GetDefaultClient uintptr
}

// Client mirrors cef_client_t. Every getter returns a handler pointer or
// NULL for "no handler".
type Client struct {
	Base BaseRefCounted

	GetAudioHandler       uintptr
	GetCommandHandler     uintptr
	GetContextMenuHandler uintptr
	GetDialogHandler      uintptr
	GetDisplayHandler     uintptr
	GetDownloadHandler    uintptr
	GetDragHandler        uintptr
	GetFindHandler        uintptr
	GetFocusHandler       uintptr
	GetFrameHandler       uintptr
	GetPermissionHandler  uintptr
	GetJSDialogHandler    uintptr
	GetKeyboardHandler    uintptr
	// cef_life_span_handler_t* (self)
	GetLifeSpanHandler uintptr
	GetLoadHandler     uintptr
	GetPrintHandler    uintptr
	// cef_render_handler_t* (self)
	GetRenderHandler  uintptr
	GetRequestHandler uintptr
	// int (self, cef_browser_t* browser, cef_frame_t* frame,
	//      cef_process_id_t source_process, cef_process_message_t* message)
	OnProcessMessageReceived uintptr
}

// LifeSpanHandler mirrors cef_life_span_handler_t.
type LifeSpanHandler struct {
	Base BaseRefCounted

	// int (self, cef_browser_t* browser, cef_frame_t* frame,
	//      const cef_string_t* target_url, const cef_string_t* target_frame_name,
	//      cef_window_open_disposition_t target_disposition, int user_gesture,
	//      const cef_popup_features_t* popupFeatures, cef_window_info_t* windowInfo,
	//      cef_client_t** client, cef_browser_settings_t* settings,
	//      cef_dictionary_value_t** extra_info, int* no_javascript_access)
	OnBeforePopup uintptr
	// void (self, cef_browser_t* browser)
	OnAfterCreated uintptr
	// int (self, cef_browser_t* browser)
	DoClose uintptr
	// void (self, cef_browser_t* browser)
	OnBeforeClose uintptr
}

// RenderHandler mirrors cef_render_handler_t.
type RenderHandler struct {
	Base BaseRefCounted

	// cef_accessibility_handler_t* (self)
	GetAccessibilityHandler uintptr
	// int (self, cef_browser_t* browser, cef_rect_t* rect)
	GetRootScreenRect uintptr
	// void (self, cef_browser_t* browser, cef_rect_t* rect)
	GetViewRect uintptr
	// int (self, cef_browser_t* browser, int viewX, int viewY, int* screenX, int* screenY)
	GetScreenPoint uintptr
	// int (self, cef_browser_t* browser, cef_screen_info_t* screen_info)
	GetScreenInfo uintptr
	// void (self, cef_browser_t* browser, int show)
	OnPopupShow uintptr
	// void (self, cef_browser_t* browser, const cef_rect_t* rect)
	OnPopupSize uintptr
	// void (self, cef_browser_t* browser, cef_paint_element_type_t type,
	//       size_t dirtyRectsCount, const cef_rect_t* dirtyRects,
	//       const void* buffer, int width, int height)
	OnPaint uintptr
	// void (self, cef_browser_t* browser, cef_paint_element_type_t type,
	//       size_t dirtyRectsCount, const cef_rect_t* dirtyRects,
	//       const cef_accelerated_paint_info_t* info)
	OnAcceleratedPaint uintptr
	// void (self, cef_browser_t* browser, cef_horizontal_alignment_t orientation, cef_size_t* size)
	GetTouchHandleSize uintptr
	// void (self, cef_browser_t* browser, const cef_touch_handle_state_t* state)
	OnTouchHandleStateChanged uintptr
	// int (self, cef_browser_t* browser, cef_drag_data_t* drag_data,
	//      cef_drag_operations_mask_t allowed_ops, int x, int y)
	StartDragging uintptr
	// void (self, cef_browser_t* browser, cef_drag_operations_mask_t operation)
	UpdateDragCursor uintptr
	// void (self, cef_browser_t* browser, double x, double y)
	OnScrollOffsetChanged uintptr
	// void (self, cef_browser_t* browser, const cef_range_t* selected_range,
	//       size_t character_boundsCount, const cef_rect_t* character_bounds)
	OnIMECompositionRangeChanged uintptr
	// void (self, cef_browser_t* browser, const cef_string_t* selected_text,
	//       const cef_range_t* selected_range)
	OnTextSelectionChanged uintptr
	// void (self, cef_browser_t* browser, cef_text_input_mode_t input_mode)
	OnVirtualKeyboardRequested uintptr
}

// URLRequestClient mirrors cef_urlrequest_client_t.
type URLRequestClient struct {
	Base BaseRefCounted

	// void (self, cef_urlrequest_t* request)
	OnRequestComplete uintptr
	// void (self, cef_urlrequest_t* request, int64_t current, int64_t total)
	OnUploadProgress uintptr
	// void (self, cef_urlrequest_t* request, int64_t current, int64_t total)
	OnDownloadProgress uintptr
	// void (self, cef_urlrequest_t* request, const void* data, size_t data_length)
	OnDownloadData uintptr
	// int (self, int isProxy, const cef_string_t* host, int port,
	//      const cef_string_t* realm, const cef_string_t* scheme,
	//      cef_auth_callback_t* callback)
	GetAuthCredentials uintptr
}
