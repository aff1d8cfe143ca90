// Package wgl implements the gpu driver interfaces on Windows: WGL pixel
// formats and contexts, the WGL_NV_DX_interop extension, and a Direct3D 11
// swapchain presenter.
//
// Everything here must run on the thread that owns the target window.
package wgl
