// Package dynamodb persists the synchronization core in a single
// DynamoDB table.
//
// Key layout:
//
//	memo       PK=USER#{userID}        SK=MEMO#{memoID}
//	           GSI1PK=MEMOID#{memoID}  GSI1SK=METADATA      (direct lookup)
//	message    PK=MEMO#{memoID}        SK=MSG#{messageID}
//	           GSI2PK=MSGID#{messageID} GSI2SK=METADATA     (direct lookup)
//	tombstone  PK=USER#{userID}        SK=TOMB#{originalID}#{deletedAt}
//	history    PK=MSGHIST#{messageID}  SK=TS#{timestamp}#{entryID}
package dynamodb

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	"chatmemo/application/ports"
	"chatmemo/domain/core/entities"
	apperrors "chatmemo/pkg/errors"
	"chatmemo/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store wraps a DynamoDB client and table. The repository ports are
// exposed through the Memos, Tombstones, Messages and History
// accessors.
type Store struct {
	client    *dynamodb.Client
	tableName string
	gsi1      string
	gsi2      string
	logger    *zap.Logger
}

// NewStore creates a store over an existing DynamoDB client
func NewStore(client *dynamodb.Client, tableName, gsi1, gsi2 string, logger *zap.Logger) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		gsi1:      gsi1,
		gsi2:      gsi2,
		logger:    logger,
	}
}

// Memos returns the memo repository view of the store
func (s *Store) Memos() ports.MemoRepository { return &memoRepo{s} }

// Tombstones returns the tombstone repository view of the store
func (s *Store) Tombstones() ports.TombstoneRepository { return &tombstoneRepo{s} }

// Messages returns the message repository view of the store
func (s *Store) Messages() ports.MessageRepository { return &messageRepo{s} }

// History returns the edit-history repository view of the store
func (s *Store) History() ports.HistoryRepository { return &historyRepo{s} }

// memoItem represents the DynamoDB item structure for a memo
type memoItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	GSI1PK        string `dynamodbav:"GSI1PK"`
	GSI1SK        string `dynamodbav:"GSI1SK"`
	EntityType    string `dynamodbav:"EntityType"`
	MemoID        string `dynamodbav:"MemoID"`
	UserID        string `dynamodbav:"UserID"`
	Title         string `dynamodbav:"Title"`
	TitleModified bool   `dynamodbav:"TitleModified"`
	IsStarred     bool   `dynamodbav:"IsStarred"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
}

func (i memoItem) toEntity() *entities.Memo {
	return &entities.Memo{
		ID:            i.MemoID,
		UserID:        i.UserID,
		Title:         i.Title,
		TitleModified: i.TitleModified,
		IsStarred:     i.IsStarred,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

type memoRepo struct{ s *Store }

func (r *memoRepo) Insert(ctx context.Context, memo *entities.Memo) (*entities.Memo, error) {
	stored := memo.Clone()
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	item := memoItem{
		PK:            fmt.Sprintf("USER#%s", stored.UserID),
		SK:            fmt.Sprintf("MEMO#%s", stored.ID),
		GSI1PK:        fmt.Sprintf("MEMOID#%s", stored.ID),
		GSI1SK:        "METADATA",
		EntityType:    "MEMO",
		MemoID:        stored.ID,
		UserID:        stored.UserID,
		Title:         stored.Title,
		TitleModified: stored.TitleModified,
		IsStarred:     stored.IsStarred,
		CreatedAt:     stored.CreatedAt,
		UpdatedAt:     stored.UpdatedAt,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal memo: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}
	if _, err := r.s.client.PutItem(ctx, input); err != nil {
		var cond *types.ConditionalCheckFailedException
		if stderrors.As(err, &cond) {
			return nil, apperrors.NewConflictError("memo already exists: " + stored.ID)
		}
		return nil, apperrors.NewRemoteError("failed to insert memo", err)
	}

	return stored, nil
}

func (r *memoRepo) SelectAll(ctx context.Context, ownerID string) ([]*entities.Memo, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", ownerID)},
			":sk": &types.AttributeValueMemberS{Value: "MEMO#"},
		},
	}

	result, err := r.s.client.Query(ctx, input)
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to load memos", err)
	}

	memos := make([]*entities.Memo, 0, len(result.Items))
	for _, raw := range result.Items {
		var item memoItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.s.logger.Warn("failed to unmarshal memo item", zap.Error(err))
			continue
		}
		memos = append(memos, item.toEntity())
	}
	return memos, nil
}

// lookupKey resolves a memo ID to its table key through GSI1
func (r *memoRepo) lookupKey(ctx context.Context, id string) (map[string]types.AttributeValue, *memoItem, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.s.tableName),
		IndexName:              aws.String(r.s.gsi1),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("MEMOID#%s", id)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.s.client.Query(ctx, input)
	if err != nil {
		return nil, nil, apperrors.NewRemoteError("failed to look up memo", err)
	}
	if len(result.Items) == 0 {
		return nil, nil, apperrors.NewNotFoundError("memo")
	}

	var item memoItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal memo: %w", err)
	}

	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: item.PK},
		"SK": &types.AttributeValueMemberS{Value: item.SK},
	}
	return key, &item, nil
}

func (r *memoRepo) Update(ctx context.Context, id string, update ports.MemoUpdate) (*entities.Memo, error) {
	key, _, err := r.lookupKey(ctx, id)
	if err != nil {
		return nil, err
	}

	builder := expression.UpdateBuilder{}
	if update.Title != nil {
		builder = builder.Set(expression.Name("Title"), expression.Value(*update.Title))
	}
	if update.TitleModified != nil {
		builder = builder.Set(expression.Name("TitleModified"), expression.Value(*update.TitleModified))
	}
	if update.IsStarred != nil {
		builder = builder.Set(expression.Name("IsStarred"), expression.Value(*update.IsStarred))
	}
	if update.UpdatedAt != "" {
		builder = builder.Set(expression.Name("UpdatedAt"), expression.Value(update.UpdatedAt))
	}

	expr, err := expression.NewBuilder().WithUpdate(builder).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.s.tableName),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	}

	result, err := r.s.client.UpdateItem(ctx, input)
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to update memo", err)
	}

	var item memoItem
	if err := attributevalue.UnmarshalMap(result.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memo: %w", err)
	}
	return item.toEntity(), nil
}

// Delete removes the memo row and every message row under it
func (r *memoRepo) Delete(ctx context.Context, id string) error {
	key, _, err := r.lookupKey(ctx, id)
	if err != nil {
		return err
	}

	msgInput := &dynamodb.QueryInput{
		TableName:              aws.String(r.s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("MEMO#%s", id)},
			":sk": &types.AttributeValueMemberS{Value: "MSG#"},
		},
		ProjectionExpression: aws.String("PK, SK"),
	}
	msgResult, err := r.s.client.Query(ctx, msgInput)
	if err != nil {
		return apperrors.NewRemoteError("failed to list memo messages", err)
	}

	for _, raw := range msgResult.Items {
		delInput := &dynamodb.DeleteItemInput{
			TableName: aws.String(r.s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": raw["PK"],
				"SK": raw["SK"],
			},
		}
		if _, err := r.s.client.DeleteItem(ctx, delInput); err != nil {
			r.s.logger.Warn("failed to delete message item", zap.String("memoID", id), zap.Error(err))
		}
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.s.tableName),
		Key:       key,
	}
	if _, err := r.s.client.DeleteItem(ctx, input); err != nil {
		return apperrors.NewRemoteError("failed to delete memo", err)
	}
	return nil
}

// tombstoneItem represents the DynamoDB item structure for a deletion
// snapshot. Messages travel inside the item so a restore needs one read.
type tombstoneItem struct {
	PK            string              `dynamodbav:"PK"`
	SK            string              `dynamodbav:"SK"`
	EntityType    string              `dynamodbav:"EntityType"`
	TombstoneID   string              `dynamodbav:"TombstoneID"`
	OriginalID    string              `dynamodbav:"OriginalID"`
	UserID        string              `dynamodbav:"UserID"`
	Title         string              `dynamodbav:"Title"`
	TitleModified bool                `dynamodbav:"TitleModified"`
	IsStarred     bool                `dynamodbav:"IsStarred"`
	CreatedAt     string              `dynamodbav:"CreatedAt"`
	UpdatedAt     string              `dynamodbav:"UpdatedAt"`
	DeletedAt     string              `dynamodbav:"DeletedAt"`
	Messages      []*entities.Message `dynamodbav:"Messages"`
}

type tombstoneRepo struct{ s *Store }

func (r *tombstoneRepo) Insert(ctx context.Context, tomb *entities.MemoTombstone) error {
	id := tomb.ID
	if id == "" {
		id = uuid.New().String()
	}

	item := tombstoneItem{
		PK:            fmt.Sprintf("USER#%s", tomb.UserID),
		SK:            fmt.Sprintf("TOMB#%s#%s", tomb.OriginalID, tomb.DeletedAt),
		EntityType:    "TOMBSTONE",
		TombstoneID:   id,
		OriginalID:    tomb.OriginalID,
		UserID:        tomb.UserID,
		Title:         tomb.Title,
		TitleModified: tomb.TitleModified,
		IsStarred:     tomb.IsStarred,
		CreatedAt:     tomb.CreatedAt,
		UpdatedAt:     tomb.UpdatedAt,
		DeletedAt:     tomb.DeletedAt,
		Messages:      tomb.Messages,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal tombstone: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.s.tableName),
		Item:      av,
	}
	if _, err := r.s.client.PutItem(ctx, input); err != nil {
		return apperrors.NewRemoteError("failed to archive deleted memo", err)
	}
	return nil
}

func (r *tombstoneRepo) SelectLatestByOriginalID(ctx context.Context, ownerID, originalID string) (*entities.MemoTombstone, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", ownerID)},
			":sk": &types.AttributeValueMemberS{Value: fmt.Sprintf("TOMB#%s#", originalID)},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	}

	result, err := r.s.client.Query(ctx, input)
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to load deleted memo", err)
	}
	if len(result.Items) == 0 {
		return nil, apperrors.NewNotFoundError("deleted memo")
	}

	var item tombstoneItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tombstone: %w", err)
	}

	return &entities.MemoTombstone{
		ID:            item.TombstoneID,
		OriginalID:    item.OriginalID,
		UserID:        item.UserID,
		Title:         item.Title,
		TitleModified: item.TitleModified,
		IsStarred:     item.IsStarred,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		DeletedAt:     item.DeletedAt,
		Messages:      item.Messages,
	}, nil
}

func (r *tombstoneRepo) Delete(ctx context.Context, tomb *entities.MemoTombstone) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", tomb.UserID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("TOMB#%s#%s", tomb.OriginalID, tomb.DeletedAt)},
		},
	}
	if _, err := r.s.client.DeleteItem(ctx, input); err != nil {
		return apperrors.NewRemoteError("failed to discard deleted memo", err)
	}
	return nil
}

// messageItem represents the DynamoDB item structure for a message
type messageItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI2PK     string `dynamodbav:"GSI2PK"`
	GSI2SK     string `dynamodbav:"GSI2SK"`
	EntityType string `dynamodbav:"EntityType"`
	MessageID  string `dynamodbav:"MessageID"`
	MemoID     string `dynamodbav:"MemoID"`
	Content    string `dynamodbav:"Content"`
	Timestamp  string `dynamodbav:"Timestamp"`
	IsDeleted  bool   `dynamodbav:"IsDeleted"`
}

func (i messageItem) toEntity() *entities.Message {
	return &entities.Message{
		ID:        i.MessageID,
		MemoID:    i.MemoID,
		Content:   i.Content,
		Timestamp: i.Timestamp,
		IsDeleted: i.IsDeleted,
	}
}

type messageRepo struct{ s *Store }

func (r *messageRepo) Insert(ctx context.Context, msg *entities.Message) (*entities.Message, error) {
	stored := msg.Clone()
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	item := messageItem{
		PK:         fmt.Sprintf("MEMO#%s", stored.MemoID),
		SK:         fmt.Sprintf("MSG#%s", stored.ID),
		GSI2PK:     fmt.Sprintf("MSGID#%s", stored.ID),
		GSI2SK:     "METADATA",
		EntityType: "MESSAGE",
		MessageID:  stored.ID,
		MemoID:     stored.MemoID,
		Content:    stored.Content,
		Timestamp:  stored.Timestamp,
		IsDeleted:  stored.IsDeleted,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.s.tableName),
		Item:      av,
	}
	if _, err := r.s.client.PutItem(ctx, input); err != nil {
		return nil, apperrors.NewRemoteError("failed to insert message", err)
	}

	return stored, nil
}

func (r *messageRepo) SelectAllActive(ctx context.Context, memoID string) ([]*entities.Message, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(fmt.Sprintf("MEMO#%s", memoID))).
		And(expression.Key("SK").BeginsWith("MSG#"))
	filter := expression.Name("IsDeleted").Equal(expression.Value(false))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	result, err := r.s.client.Query(ctx, input)
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to load messages", err)
	}

	messages := make([]*entities.Message, 0, len(result.Items))
	for _, raw := range result.Items {
		var item messageItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.s.logger.Warn("failed to unmarshal message item", zap.Error(err))
			continue
		}
		messages = append(messages, item.toEntity())
	}
	sortMessagesAscending(messages)
	return messages, nil
}

// SelectAllActiveByOwner fans out over the owner's memo partitions.
// The client core holds one account, so the fan-out stays small.
func (r *messageRepo) SelectAllActiveByOwner(ctx context.Context, ownerID string) ([]*entities.Message, error) {
	memos, err := (&memoRepo{r.s}).SelectAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	all := make([]*entities.Message, 0)
	for _, memo := range memos {
		messages, err := r.SelectAllActive(ctx, memo.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, messages...)
	}
	sortMessagesAscending(all)
	return all, nil
}

// lookupKey resolves a message ID to its table key through GSI2
func (r *messageRepo) lookupKey(ctx context.Context, id string) (map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.s.tableName),
		IndexName:              aws.String(r.s.gsi2),
		KeyConditionExpression: aws.String("GSI2PK = :pk AND GSI2SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("MSGID#%s", id)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.s.client.Query(ctx, input)
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to look up message", err)
	}
	if len(result.Items) == 0 {
		return nil, apperrors.NewNotFoundError("message")
	}

	var item messageItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: item.PK},
		"SK": &types.AttributeValueMemberS{Value: item.SK},
	}, nil
}

func (r *messageRepo) Update(ctx context.Context, id, content string) (*entities.Message, error) {
	update := expression.Set(expression.Name("Content"), expression.Value(content)).
		Set(expression.Name("Timestamp"), expression.Value(utils.NowTimestamp()))
	return r.updateItem(ctx, id, update, "failed to update message")
}

func (r *messageRepo) MarkDeleted(ctx context.Context, id string) (*entities.Message, error) {
	update := expression.Set(expression.Name("IsDeleted"), expression.Value(true))
	return r.updateItem(ctx, id, update, "failed to delete message")
}

func (r *messageRepo) MarkActive(ctx context.Context, id string) (*entities.Message, error) {
	update := expression.Set(expression.Name("IsDeleted"), expression.Value(false))
	return r.updateItem(ctx, id, update, "failed to restore message")
}

func (r *messageRepo) updateItem(ctx context.Context, id string, update expression.UpdateBuilder, failMsg string) (*entities.Message, error) {
	key, err := r.lookupKey(ctx, id)
	if err != nil {
		return nil, err
	}

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.s.tableName),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	}

	result, err := r.s.client.UpdateItem(ctx, input)
	if err != nil {
		return nil, apperrors.NewRemoteError(failMsg, err)
	}

	var item messageItem
	if err := attributevalue.UnmarshalMap(result.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return item.toEntity(), nil
}

// historyItem represents the DynamoDB item structure for an archived
// message revision
type historyItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	EntryID    string `dynamodbav:"EntryID"`
	MessageID  string `dynamodbav:"MessageID"`
	Content    string `dynamodbav:"Content"`
	Timestamp  string `dynamodbav:"Timestamp"`
}

type historyRepo struct{ s *Store }

func (r *historyRepo) Insert(ctx context.Context, entry *entities.HistoryEntry) error {
	id := entry.ID
	if id == "" {
		id = uuid.New().String()
	}

	item := historyItem{
		PK:         fmt.Sprintf("MSGHIST#%s", entry.MessageID),
		SK:         fmt.Sprintf("TS#%s#%s", entry.Timestamp, id),
		EntityType: "MESSAGE_HISTORY",
		EntryID:    id,
		MessageID:  entry.MessageID,
		Content:    entry.Content,
		Timestamp:  entry.Timestamp,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.s.tableName),
		Item:      av,
	}
	if _, err := r.s.client.PutItem(ctx, input); err != nil {
		return apperrors.NewRemoteError("failed to archive message version", err)
	}
	return nil
}

func (r *historyRepo) SelectByMessage(ctx context.Context, messageID string) ([]*entities.HistoryEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("MSGHIST#%s", messageID)},
			":sk": &types.AttributeValueMemberS{Value: "TS#"},
		},
		ScanIndexForward: aws.Bool(false),
	}

	result, err := r.s.client.Query(ctx, input)
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to load message history", err)
	}

	entries := make([]*entities.HistoryEntry, 0, len(result.Items))
	for _, raw := range result.Items {
		var item historyItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.s.logger.Warn("failed to unmarshal history item", zap.Error(err))
			continue
		}
		entries = append(entries, &entities.HistoryEntry{
			ID:        item.EntryID,
			MessageID: item.MessageID,
			Content:   item.Content,
			Timestamp: item.Timestamp,
		})
	}
	return entries, nil
}

func sortMessagesAscending(messages []*entities.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		ti := utils.ParseTimestamp(messages[i].Timestamp)
		tj := utils.ParseTimestamp(messages[j].Timestamp)
		return ti.Before(tj)
	})
}
