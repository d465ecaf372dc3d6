package assets

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	rlidisplay "github.com/zappa672/RLIDisplay"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
)

// Uploader turns atlas images into backend textures.
type Uploader interface {
	Upload(label string, img *image.RGBA) (render.TextureID, error)
	Free(id render.TextureID)
}

type setKey struct {
	kind   Kind
	scheme string
}

// Set holds every shared atlas of one symbology reference.
type Set struct {
	uploader Uploader
	atlases  map[setKey]*Atlas
	glyphs   *Atlas
	metrics  GlyphMetrics
}

// Load builds and uploads the atlases for every colour scheme of refs plus
// the glyph atlas. Schemes without an atlas of some kind are skipped.
func Load(refs s52.References, up Uploader) (*Set, error) {
	if refs == nil {
		return nil, errors.New("assets: nil references")
	}
	if up == nil {
		return nil, errors.New("assets: nil uploader")
	}
	s := &Set{uploader: up, atlases: make(map[setKey]*Atlas)}

	for _, scheme := range refs.ColorSchemes() {
		for _, kind := range []Kind{KindPattern, KindLine, KindSymbol} {
			rk, _ := kind.referenceKind()
			src := refs.Atlas(rk, scheme)
			if src == nil || src.Image == nil {
				continue
			}
			a, err := s.upload(kind, scheme, toRGBA(src.Image), src.Entries)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.atlases[setKey{kind, scheme}] = a
		}
	}

	img, entries, metrics, err := buildGlyphAtlas()
	if err != nil {
		s.Close()
		return nil, err
	}
	glyphs, err := s.upload(KindGlyph, "", img, entries)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.glyphs = glyphs
	s.metrics = metrics

	rlidisplay.Logger().Debug("assets: atlases loaded", "atlases", len(s.atlases), "glyphs", len(entries))
	return s, nil
}

func (s *Set) upload(kind Kind, scheme string, img *image.RGBA, entries map[string]image.Rectangle) (*Atlas, error) {
	label := fmt.Sprintf("atlas-%s-%s", kind, scheme)
	id, err := s.uploader.Upload(label, img)
	if err != nil {
		return nil, fmt.Errorf("assets: upload %s: %w", label, err)
	}
	return &Atlas{Kind: kind, Scheme: scheme, Image: img, Entries: entries, Texture: id}, nil
}

// Atlas returns the atlas of kind for scheme. The glyph atlas is returned
// for any scheme. A missing atlas is nil.
func (s *Set) Atlas(kind Kind, scheme string) *Atlas {
	if kind == KindGlyph {
		return s.glyphs
	}
	return s.atlases[setKey{kind, scheme}]
}

// ForClass returns the atlas class c draws with under scheme.
func (s *Set) ForClass(c s52.Class, scheme string) *Atlas {
	return s.Atlas(ForClass(c), scheme)
}

// GlyphMetrics returns the line metrics of the glyph atlas.
func (s *Set) GlyphMetrics() GlyphMetrics {
	return s.metrics
}

// Len returns the number of atlases, glyph atlas included.
func (s *Set) Len() int {
	n := len(s.atlases)
	if s.glyphs != nil {
		n++
	}
	return n
}

// Close frees every uploaded texture.
func (s *Set) Close() {
	for k, a := range s.atlases {
		s.uploader.Free(a.Texture)
		delete(s.atlases, k)
	}
	if s.glyphs != nil {
		s.uploader.Free(s.glyphs.Texture)
		s.glyphs = nil
	}
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// CPUUploader keeps atlas images in memory and hands out texture IDs.
type CPUUploader struct {
	images map[render.TextureID]*image.RGBA
}

// NewCPUUploader creates an empty uploader.
func NewCPUUploader() *CPUUploader {
	return &CPUUploader{images: make(map[render.TextureID]*image.RGBA)}
}

// Upload stores img under a fresh texture ID.
func (u *CPUUploader) Upload(_ string, img *image.RGBA) (render.TextureID, error) {
	if img == nil {
		return render.NoTexture, errors.New("assets: nil image")
	}
	id := render.NextTextureID()
	u.images[id] = img
	return id, nil
}

// Free drops the image behind id.
func (u *CPUUploader) Free(id render.TextureID) {
	delete(u.images, id)
}

// Image returns the image stored under id.
func (u *CPUUploader) Image(id render.TextureID) (*image.RGBA, bool) {
	img, ok := u.images[id]
	return img, ok
}

// Len returns the number of live textures.
func (u *CPUUploader) Len() int {
	return len(u.images)
}
