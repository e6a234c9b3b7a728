package ocr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	replySchemaOnce sync.Once
	replySchema     *jsonschema.Schema
	replySchemaErr  error
)

func compiledReplySchema() (*jsonschema.Schema, error) {
	replySchemaOnce.Do(func() {
		b, err := json.Marshal(recognizeReplySchema)
		if err != nil {
			replySchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("recognize-reply.json", bytes.NewReader(b)); err != nil {
			replySchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		replySchema, replySchemaErr = compiler.Compile("recognize-reply.json")
	})
	return replySchema, replySchemaErr
}

func validateReply(raw []byte) error {
	schema, err := compiledReplySchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal reply: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("reply does not match schema: %w", err)
	}
	return nil
}
