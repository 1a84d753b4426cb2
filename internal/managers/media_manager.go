package managers

import (
	"bytes"
	"context"
	"image"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gadget-server/internal/config"
	"gadget-server/internal/schemas"
)

const (
	imageSize    = 800
	imageQuality = 85
)

// ErrInvalidImage is returned when an uploaded file cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// MediaMgr stores product images on the media host.
type MediaMgr interface {
	// Upload resizes every file to a square and stores them in parallel.
	// Either all images are stored or none.
	Upload(ctx context.Context, files []*multipart.FileHeader) ([]schemas.Image, error)
	Destroy(ctx context.Context, imageID string) error
}

// S3API is the part of the S3 client the media manager needs.
type S3API interface {
	manager.UploadAPIClient
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// MediaManager keeps images in an S3 compatible bucket.
type MediaManager struct {
	client    S3API
	uploader  *manager.Uploader
	bucket    string
	prefix    string
	publicURL string
}

// NewMediaManager builds the S3 client from the default credential chain,
// or from S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY when both are set.
// S3_ENDPOINT points the client at an S3 compatible host such as MinIO.
func NewMediaManager(ctx context.Context, cfg *config.Config) (MediaMgr, error) {
	log.Info("Initializing media manager")

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info("Initialized media manager")
	return NewMediaManagerWithClient(client, cfg.S3Bucket, cfg.S3Prefix, cfg.S3PublicURL), nil
}

func NewMediaManagerWithClient(client S3API, bucket, prefix, publicURL string) *MediaManager {
	return &MediaManager{
		client:    client,
		uploader:  manager.NewUploader(client),
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (mm *MediaManager) Upload(ctx context.Context, files []*multipart.FileHeader) ([]schemas.Image, error) {
	images := make([]schemas.Image, len(files))
	uploaded := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			img, err := mm.uploadOne(gctx, file)
			if err != nil {
				return err
			}
			images[i] = img
			uploaded[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// drop what made it to the host so no image is orphaned
		for i, ok := range uploaded {
			if !ok {
				continue
			}
			if derr := mm.Destroy(context.WithoutCancel(ctx), images[i].ImageID); derr != nil {
				log.Warn("Error removing image after failed upload: ", derr)
			}
		}
		return nil, err
	}
	return images, nil
}

func (mm *MediaManager) uploadOne(ctx context.Context, file *multipart.FileHeader) (schemas.Image, error) {
	src, err := file.Open()
	if err != nil {
		return schemas.Image{}, errors.Wrap(err, "open upload")
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return schemas.Image{}, errors.Wrap(ErrInvalidImage, err.Error())
	}

	data, err := squareJPEG(img)
	if err != nil {
		return schemas.Image{}, err
	}

	key := uuid.NewString() + ".jpg"
	if mm.prefix != "" {
		key = mm.prefix + "/" + key
	}

	out, err := mm.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(mm.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return schemas.Image{}, errors.Wrap(err, "upload image")
	}

	url := out.Location
	if mm.publicURL != "" {
		url = mm.publicURL + "/" + key
	}
	return schemas.Image{URL: url, ImageID: key}, nil
}

// squareJPEG crops the image to fill an imageSize square and encodes it as JPEG.
func squareJPEG(img image.Image) ([]byte, error) {
	resized := imaging.Fill(img, imageSize, imageSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(imageQuality)); err != nil {
		return nil, errors.Wrap(err, "encode image")
	}
	return buf.Bytes(), nil
}

func (mm *MediaManager) Destroy(ctx context.Context, imageID string) error {
	_, err := mm.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(mm.bucket),
		Key:    aws.String(imageID),
	})
	if err != nil {
		return errors.Wrapf(err, "delete image %s", imageID)
	}
	return nil
}
