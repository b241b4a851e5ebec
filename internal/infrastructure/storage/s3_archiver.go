// Package storage archivo de comprobantes PDF de documentos posteados.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.SlipArchiver = (*S3Archiver)(nil)

// S3Config parámetros del bucket (AWS S3 o MinIO).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // opcional, p. ej. MinIO
	PathStyle       bool
	Prefix          string // prefijo de las llaves, p. ej. "slips"
	AccessKeyID     string // opcional; vacío usa la cadena de credenciales por defecto
	SecretAccessKey string

	HTTPClient *http.Client // opcional, tests
}

// S3Archiver guarda cada comprobante como objeto application/pdf.
type S3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Archiver construye el cliente S3 desde la configuración.
func NewS3Archiver(ctx context.Context, cfg S3Config) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket requerido")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("cargar configuración aws: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		// MinIO y otros compatibles no aceptan el checksum en trailer
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &S3Archiver{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Archive sube el PDF; la llave se antepone con el prefijo configurado.
func (a *S3Archiver) Archive(ctx context.Context, key string, pdf []byte) error {
	objectKey := path.Join(a.prefix, key)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(pdf),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(pdf))),
	})
	if err != nil {
		return fmt.Errorf("subir comprobante %s: %w", objectKey, err)
	}
	return nil
}
