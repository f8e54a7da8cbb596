package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/propertyhub/api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
// The table is keyed by canonical phone number, which makes the OTP upsert a
// single atomic UpdateItem; a user_id GSI serves token-based lookups.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) Get(ctx context.Context, phone string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone", phone),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-index"),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": "user_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: userID}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertOTP writes a fresh code onto the record for phone, creating the record
// when it does not exist yet. Identity fields use if_not_exists so a re-issue
// never overwrites an established user_id or verified flag; OTP fields are
// overwritten unconditionally — the most recently issued code is authoritative.
func (r *UserRepo) UpsertOTP(ctx context.Context, phone, candidateID, code string, expiry, sentAt time.Time) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone", phone),
		UpdateExpression: aws.String("SET otp_code = :c, otp_expiry = :e, otp_attempts = :zero, last_otp_sent = :s, updated_at = :now, " +
			"user_id = if_not_exists(user_id, :id), #r = if_not_exists(#r, :role), " +
			"phone_verified = if_not_exists(phone_verified, :f), created_at = if_not_exists(created_at, :now)"),
		ExpressionAttributeNames: map[string]string{"#r": "role"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c":    &types.AttributeValueMemberS{Value: code},
			":e":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiry.Unix())},
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":s":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", sentAt.Unix())},
			":now":  &types.AttributeValueMemberS{Value: now},
			":id":   &types.AttributeValueMemberS{Value: candidateID},
			":role": &types.AttributeValueMemberS{Value: domain.RoleUser},
			":f":    &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		return fmt.Errorf("upsert otp: %w", err)
	}
	return nil
}

// IncrementAttempts bumps the failed-attempt counter with an atomic ADD.
// Callers check the ceiling before calling; under concurrent verifies the
// ceiling stays a soft bound (two in-flight requests may both pass the check).
func (r *UserRepo) IncrementAttempts(ctx context.Context, phone string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("phone", phone),
		UpdateExpression: aws.String("ADD otp_attempts :one SET updated_at = :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	return err
}

// MarkVerified records a successful verification: the verified flag sticks and
// every OTP field is cleared so the consumed code can never be replayed.
func (r *UserRepo) MarkVerified(ctx context.Context, phone string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone", phone),
		UpdateExpression: aws.String("SET phone_verified = :t, otp_code = :empty, otp_expiry = :zero, " +
			"otp_attempts = :zero, last_otp_sent = :zero, updated_at = :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":     &types.AttributeValueMemberBOOL{Value: true},
			":empty": &types.AttributeValueMemberS{Value: ""},
			":zero":  &types.AttributeValueMemberN{Value: "0"},
			":now":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	return err
}

// UpdateProfile applies a partial update (name, email) to the record for phone.
func (r *UserRepo) UpdateProfile(ctx context.Context, phone string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("phone", phone),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}
