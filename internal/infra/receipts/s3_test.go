package receipts

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/rental-scheduler/internal/config"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func newPayment() *models.Payment {
	paid := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.Payment{
		ID:            uuid.New(),
		ReservationID: uuid.New(),
		Amount:        24000,
		Currency:      "PEN",
		Method:        "credit_card",
		Status:        "completed",
		TransactionID: "TXN_20250301100000_ab12cd34",
		CardLast4:     "4242",
		CardType:      "visa",
		PaymentDate:   &paid,
	}
}

func TestNewS3StoreWithoutBucket(t *testing.T) {
	assert.Nil(t, NewS3Store(&config.Config{}))
	assert.NotNil(t, NewS3Store(&config.Config{ReceiptsBucket: "receipts", S3Region: "us-east-1"}))
}

func TestArchive(t *testing.T) {
	p := newPayment()
	putter := &fakePutter{}
	store := &S3Store{client: putter, bucket: "receipts"}

	require.NoError(t, store.Archive(context.Background(), p))

	assert.Equal(t, "receipts", aws.ToString(putter.in.Bucket))
	assert.Equal(t, "receipts/"+p.ReservationID.String()+"/"+p.ID.String()+".json", aws.ToString(putter.in.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.in.ContentType))

	var got receipt
	require.NoError(t, json.Unmarshal(putter.body, &got))
	assert.Equal(t, int64(24000), got.Amount)
	assert.Equal(t, "4242", got.CardLast4)
	assert.Empty(t, got.FailureReason)
}

func TestArchiveError(t *testing.T) {
	store := &S3Store{client: &fakePutter{err: errors.New("access denied")}, bucket: "receipts"}

	err := store.Archive(context.Background(), newPayment())
	assert.ErrorContains(t, err, "put receipt")
}
