//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/cefstring"
	"github.com/obinnaokechukwu/gocef/refcount"
	"github.com/obinnaokechukwu/gocef/wrap"
)

// URLRequest is a reference to a cef_urlrequest_t. Its methods must be
// called on the thread that created the request. A URLRequest passed into
// a URLRequestClientCallbacks callback is only valid until it returns.
type URLRequest struct {
	ref *refcount.Ref[capi.URLRequest]
}

func newURLRequest(p unsafe.Pointer) *URLRequest {
	ref := adopt[capi.URLRequest](p)
	if ref == nil {
		return nil
	}
	return &URLRequest{ref: ref}
}

// NewURLRequest starts a URL request that is not associated with a browser.
// client receives the request's events. requestContext may be nil to use
// the global context. The caller keeps its own references to all three
// arguments.
func NewURLRequest(request *Handle, client *refcount.Ref[capi.URLRequestClient], requestContext *Handle) (*URLRequest, error) {
	if err := api(); err != nil {
		return nil, err
	}
	if cefURLRequestCreate == nil {
		return nil, fmt.Errorf("cef: cef_urlrequest_create unavailable: %w", ErrNotLoaded)
	}
	if !request.Valid() || !client.Valid() {
		return nil, ErrNullHandle
	}
	p := cefURLRequestCreate(
		unsafe.Pointer(request.Clone().IntoRaw()),
		unsafe.Pointer(client.Clone().IntoRaw()),
		unsafe.Pointer(requestContext.Clone().IntoRaw()),
	)
	if p == nil {
		return nil, ErrNullHandle
	}
	return &URLRequest{ref: refcount.MustAdopt(p)}, nil
}

// Ref returns the underlying reference.
func (r *URLRequest) Ref() *refcount.Ref[capi.URLRequest] {
	if r == nil {
		return nil
	}
	return r.ref
}

// Clone returns a new reference to the same request, or nil if r has been
// released.
func (r *URLRequest) Clone() *URLRequest {
	if r == nil {
		return nil
	}
	ref := r.ref.Clone()
	if ref == nil {
		return nil
	}
	return &URLRequest{ref: ref}
}

// Release drops this reference.
func (r *URLRequest) Release() bool {
	if r == nil {
		return false
	}
	return r.ref.Release()
}

// Request returns the read-only request object used to create this URL
// request.
func (r *URLRequest) Request() *Handle {
	v, _ := deref(r.Ref())
	if v == nil {
		return nil
	}
	return adopt[capi.Opaque](callPtr(v.GetRequest, unsafe.Pointer(v)))
}

// Client returns the client receiving this request's events.
func (r *URLRequest) Client() *refcount.Ref[capi.URLRequestClient] {
	v, _ := deref(r.Ref())
	if v == nil {
		return nil
	}
	return adopt[capi.URLRequestClient](callPtr(v.GetClient, unsafe.Pointer(v)))
}

// Status returns the request status.
func (r *URLRequest) Status() URLRequestStatus {
	v, p := deref(r.Ref())
	if v == nil {
		return URLRequestUnknown
	}
	return URLRequestStatus(callInt(v.GetRequestStatus, p))
}

// Error returns the request error if the status is canceled or failed,
// or ErrNone otherwise.
func (r *URLRequest) Error() ErrorCode {
	v, p := deref(r.Ref())
	if v == nil {
		return ErrNone
	}
	return ErrorCode(callInt(v.GetRequestError, p))
}

// Response returns the response, or nil if no response information is
// available yet. It is available only after the upload has completed.
func (r *URLRequest) Response() *Handle {
	v, _ := deref(r.Ref())
	if v == nil {
		return nil
	}
	return adopt[capi.Opaque](callPtr(v.GetResponse, unsafe.Pointer(v)))
}

// ResponseWasCached returns true if the response body was served from the
// cache.
func (r *URLRequest) ResponseWasCached() bool {
	v, p := deref(r.Ref())
	if v == nil {
		return false
	}
	return callInt(v.ResponseWasCached, p) != 0
}

// Cancel cancels the request.
func (r *URLRequest) Cancel() error {
	v, p := deref(r.Ref())
	if v == nil {
		return ErrClosed
	}
	call(v.Cancel, p)
	return nil
}

// AuthCallback is a reference to a cef_auth_callback_t, used to answer
// an asynchronous credentials request.
type AuthCallback struct {
	ref *refcount.Ref[capi.AuthCallback]
}

func newAuthCallback(p unsafe.Pointer) *AuthCallback {
	ref := adopt[capi.AuthCallback](p)
	if ref == nil {
		return nil
	}
	return &AuthCallback{ref: ref}
}

// Clone returns a new reference to the same callback, or nil if a has
// been released.
func (a *AuthCallback) Clone() *AuthCallback {
	if a == nil {
		return nil
	}
	ref := a.ref.Clone()
	if ref == nil {
		return nil
	}
	return &AuthCallback{ref: ref}
}

// Release drops this reference.
func (a *AuthCallback) Release() bool {
	if a == nil {
		return false
	}
	return a.ref.Release()
}

// Continue the authentication request with the given credentials.
func (a *AuthCallback) Continue(username, password string) error {
	if a == nil {
		return ErrClosed
	}
	v, p := deref(a.ref)
	if v == nil {
		return ErrClosed
	}
	user, err := cefstring.New(username)
	if err != nil {
		return err
	}
	defer user.Free()
	pass, err := cefstring.New(password)
	if err != nil {
		return err
	}
	defer pass.Free()

	call(v.Cont, p, uintptr(unsafe.Pointer(user.Raw())), uintptr(unsafe.Pointer(pass.Raw())))
	return nil
}

// Cancel the authentication request.
func (a *AuthCallback) Cancel() error {
	if a == nil {
		return ErrClosed
	}
	v, p := deref(a.ref)
	if v == nil {
		return ErrClosed
	}
	call(v.Cancel, p)
	return nil
}

// AuthChallenge describes a request for credentials.
type AuthChallenge struct {
	IsProxy bool
	Host    string
	Port    int
	Realm   string
	Scheme  string
}

// URLRequestClientCallbacks receives the events of a URLRequest. Callbacks
// run on the thread that created the request unless noted.
type URLRequestClientCallbacks struct {
	// OnRequestComplete is called when the request has completed. Use
	// request.Status to find out whether it succeeded.
	OnRequestComplete func(request *URLRequest)

	// OnUploadProgress reports upload progress. total is -1 for chunked
	// uploads.
	OnUploadProgress func(request *URLRequest, current, total int64)

	// OnDownloadProgress reports download progress. total is -1 if the
	// size is not known.
	OnDownloadProgress func(request *URLRequest, current, total int64)

	// OnDownloadData receives the bytes read since the last call. data is
	// only valid during the call.
	OnDownloadData func(request *URLRequest, data []byte)

	// GetAuthCredentials is called on the IO thread when credentials are
	// needed. Return true and call Continue or Cancel on callback to
	// handle the request, or false to cancel it. To answer after returning,
	// keep callback.Clone().
	GetAuthCredentials func(challenge AuthChallenge, callback *AuthCallback) bool
}

var (
	urlRequestClientOnce sync.Once
	urlRequestClientFns  struct {
		onRequestComplete  uintptr
		onUploadProgress   uintptr
		onDownloadProgress uintptr
		onDownloadData     uintptr
		getAuthCredentials uintptr
	}
)

func initURLRequestClientCallbacks() {
	urlRequestClientOnce.Do(func() {
		fns := &urlRequestClientFns

		// void on_request_complete(self, cef_urlrequest_t* request)
		fns.onRequestComplete = purego.NewCallback(func(_ purego.CDecl, self, request unsafe.Pointer) {
			req := newURLRequest(request)
			dispatch("URLRequestClient.OnRequestComplete", func() {
				cb, ok := wrap.Recover[*URLRequestClientCallbacks](self)
				if !ok || cb.OnRequestComplete == nil {
					return
				}
				cb.OnRequestComplete(req)
			}, req)
		})

		// void on_upload_progress(self, cef_urlrequest_t* request, int64_t current, int64_t total)
		fns.onUploadProgress = purego.NewCallback(func(_ purego.CDecl, self, request unsafe.Pointer, current, total int64) {
			req := newURLRequest(request)
			dispatch("URLRequestClient.OnUploadProgress", func() {
				cb, ok := wrap.Recover[*URLRequestClientCallbacks](self)
				if !ok || cb.OnUploadProgress == nil {
					return
				}
				cb.OnUploadProgress(req, current, total)
			}, req)
		})

		// void on_download_progress(self, cef_urlrequest_t* request, int64_t current, int64_t total)
		fns.onDownloadProgress = purego.NewCallback(func(_ purego.CDecl, self, request unsafe.Pointer, current, total int64) {
			req := newURLRequest(request)
			dispatch("URLRequestClient.OnDownloadProgress", func() {
				cb, ok := wrap.Recover[*URLRequestClientCallbacks](self)
				if !ok || cb.OnDownloadProgress == nil {
					return
				}
				cb.OnDownloadProgress(req, current, total)
			}, req)
		})

		// void on_download_data(self, cef_urlrequest_t* request, const void* data, size_t data_length)
		fns.onDownloadData = purego.NewCallback(func(_ purego.CDecl, self, request unsafe.Pointer, data *byte, n uintptr) {
			req := newURLRequest(request)
			dispatch("URLRequestClient.OnDownloadData", func() {
				cb, ok := wrap.Recover[*URLRequestClientCallbacks](self)
				if !ok || cb.OnDownloadData == nil {
					return
				}
				var buf []byte
				if data != nil && n > 0 {
					buf = unsafe.Slice(data, n)
				}
				cb.OnDownloadData(req, buf)
			}, req)
		})

		// int get_auth_credentials(self, int isProxy, const cef_string_t* host, int port,
		//     const cef_string_t* realm, const cef_string_t* scheme, cef_auth_callback_t* callback)
		fns.getAuthCredentials = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, isProxy int32, host *capi.String, port int32, realm, scheme *capi.String, callback unsafe.Pointer) int32 {
			auth := newAuthCallback(callback)
			var ret int32
			dispatch("URLRequestClient.GetAuthCredentials", func() {
				cb, ok := wrap.Recover[*URLRequestClientCallbacks](self)
				if !ok || cb.GetAuthCredentials == nil {
					return
				}
				ret = wrap.Bool(cb.GetAuthCredentials(AuthChallenge{
					IsProxy: isProxy != 0,
					Host:    cefstring.Decode(host),
					Port:    int(port),
					Realm:   cefstring.Decode(realm),
					Scheme:  cefstring.Decode(scheme),
				}, auth))
			}, auth)
			return ret
		})
	})
}

// NewURLRequestClient creates a cef_urlrequest_client_t backed by cb.
// Only the non-nil fields of cb are installed.
func NewURLRequestClient(cb *URLRequestClientCallbacks) *refcount.Ref[capi.URLRequestClient] {
	if cb == nil {
		cb = &URLRequestClientCallbacks{}
	}
	initURLRequestClientCallbacks()
	fns := &urlRequestClientFns
	return wrap.New(cb, func(v *capi.URLRequestClient) {
		if cb.OnRequestComplete != nil {
			v.OnRequestComplete = fns.onRequestComplete
		}
		if cb.OnUploadProgress != nil {
			v.OnUploadProgress = fns.onUploadProgress
		}
		if cb.OnDownloadProgress != nil {
			v.OnDownloadProgress = fns.onDownloadProgress
		}
		if cb.OnDownloadData != nil {
			v.OnDownloadData = fns.onDownloadData
		}
		if cb.GetAuthCredentials != nil {
			v.GetAuthCredentials = fns.getAuthCredentials
		}
	})
}
