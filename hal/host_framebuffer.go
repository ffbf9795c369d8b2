//go:build !tinygo

package hal

import (
	"image"
	"sync"
)

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	f := &hostFramebuffer{}
	f.resize(width, height)
	return f
}

func (f *hostFramebuffer) Width() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width
}

func (f *hostFramebuffer) Height() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.height
}

func (f *hostFramebuffer) StrideBytes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stride
}

func (f *hostFramebuffer) Buffer() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf
}

func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) Present() error      { return nil }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

// resize reallocates the buffer when the size changes. It reports whether it did.
func (f *hostFramebuffer) resize(width, height int) bool {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if width == f.width && height == f.height && f.buf != nil {
		return false
	}
	f.width = width
	f.height = height
	f.stride = width * 2
	f.buf = make([]byte, f.stride*height)
	return true
}

// rgba converts the current contents to an RGBA image.
func (f *hostFramebuffer) rgba(dst *image.RGBA) *image.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	if dst == nil || dst.Bounds().Dx() != f.width || dst.Bounds().Dy() != f.height {
		dst = image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	}
	src := f.buf
	pix := dst.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(pix); i += 2 {
		r, g, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		pix[j+0] = r
		pix[j+1] = g
		pix[j+2] = b
		pix[j+3] = 0xFF
	}
	return dst
}
