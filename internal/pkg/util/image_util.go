package util

import (
	"bytes"
	"io"

	"github.com/disintegration/imaging"
)

// ResizeImage 等比缩放图片并编码为 JPEG，width 为 0 时按高度缩放
func ResizeImage(r io.Reader, width, height int, quality int) (io.Reader, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	resized := imaging.Resize(img, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return &buf, nil
}

// SquareThumbnail 居中裁剪生成正方形缩略图
func SquareThumbnail(r io.Reader, size int, quality int) (io.Reader, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return &buf, nil
}
