package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/BruksfildServices01/rental-scheduler/internal/config"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	client objectPutter
	bucket string
}

// NewS3Store devolve nil quando não há bucket configurado.
func NewS3Store(cfg *config.Config) *S3Store {
	if cfg.ReceiptsBucket == "" {
		return nil
	}

	opts := s3.Options{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Store{
		client: s3.New(opts),
		bucket: cfg.ReceiptsBucket,
	}
}

type receipt struct {
	PaymentID     string     `json:"payment_id"`
	ReservationID string     `json:"reservation_id"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CardLast4     string     `json:"card_last4,omitempty"`
	CardType      string     `json:"card_type,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
}

// Key: receipts/<reservation>/<payment>.json
func Key(p *models.Payment) string {
	return path.Join("receipts", p.ReservationID.String(), p.ID.String()+".json")
}

func (s *S3Store) Archive(ctx context.Context, p *models.Payment) error {
	body, err := json.Marshal(receipt{
		PaymentID:     p.ID.String(),
		ReservationID: p.ReservationID.String(),
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		FailureReason: p.FailureReason,
		CardLast4:     p.CardLast4,
		CardType:      p.CardType,
		PaymentDate:   p.PaymentDate,
	})
	if err != nil {
		return errors.Wrap(err, "marshal receipt")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(Key(p)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	return errors.Wrap(err, "put receipt")
}
