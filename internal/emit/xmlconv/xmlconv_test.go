package xmlconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssw-msgspec-gen/internal/ir"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func testOptions() Options {
	return Options{
		NamespaceOutbound: "urn:outbound",
		NamespaceInbound:  "urn:inbound",
		ProjectGroupID:    "com.example",
		ProjectArtifactID: "msgspec",
		ClassPackage:      "com.example.msgspec",
	}
}

func modelWithRequest(fields []ir.FieldNode) *ir.MessageModel {
	return &ir.MessageModel{
		Metadata: ir.Metadata{OperationID: strp("createAccount")},
		Request:  ir.FieldGroup{Fields: fields},
	}
}

func TestEmitOutboundRejectsEmptyRequest(t *testing.T) {
	model := &ir.MessageModel{Metadata: ir.Metadata{OperationID: strp("createAccount")}}
	_, err := EmitOutbound(model, testOptions())
	require.Error(t, err)
}

func TestEmitOutboundRequiresOperationID(t *testing.T) {
	model := modelWithRequest([]ir.FieldNode{{OriginalName: "a", CamelCaseName: strp("a")}})
	model.Metadata.OperationID = nil
	_, err := EmitOutbound(model, testOptions())
	require.Error(t, err)
}

func TestEmitOutboundRendersPrimitiveField(t *testing.T) {
	model := modelWithRequest([]ir.FieldNode{
		{OriginalName: "accountId", CamelCaseName: strp("accountId"), Length: intp(20), DataType: strp("xs:string")},
	})
	out, err := EmitOutbound(model, testOptions())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `xmlns="urn:outbound"`)
	assert.Contains(t, s, `<message forType="com.example.msgspec.createAccountRequest">`)
	assert.Contains(t, s, `name="accountId"`)
	assert.Contains(t, s, `type="DataField"`)
	assert.Contains(t, s, `converter="stringFieldConverter"`)
}

func TestEmitOutboundRendersCurrencyConverter(t *testing.T) {
	model := modelWithRequest([]ir.FieldNode{
		{OriginalName: "amount", CamelCaseName: strp("amount"), Length: intp(12), DataType: strp("amount")},
	})
	out, err := EmitOutbound(model, testOptions())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `converter="OHcurrencyamountFieldConverter"`)
	assert.Contains(t, s, `forType="java.math.BigDecimal"`)
}

func TestEmitOutboundRendersCompositeField(t *testing.T) {
	className := "Address"
	model := modelWithRequest([]ir.FieldNode{
		{
			OriginalName: "address", CamelCaseName: strp("address"), IsObject: true, ClassName: &className,
			Children: []ir.FieldNode{
				{OriginalName: "city", CamelCaseName: strp("city"), Length: intp(30), DataType: strp("xs:string")},
			},
		},
	})
	out, err := EmitOutbound(model, testOptions())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `type="CompositeField"`)
	assert.Contains(t, s, `forType="com.example.msgspec.Address"`)
	assert.Contains(t, s, `name="city"`)
}

func TestEmitOutboundRendersRepeatingFieldWithFixedCount(t *testing.T) {
	className := "Item"
	model := modelWithRequest([]ir.FieldNode{
		{
			OriginalName: "item", CamelCaseName: strp("item"), IsArray: true, ClassName: &className,
			OccurrenceCount: strp("1..5"),
			Children: []ir.FieldNode{
				{OriginalName: "sku", CamelCaseName: strp("sku"), Length: intp(20), DataType: strp("xs:string")},
			},
		},
	})
	out, err := EmitOutbound(model, testOptions())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `type="RepeatingField"`)
	assert.Contains(t, s, `fixedCount="5"`)
}

func TestEmitOutboundRendersTransitoryGroupIDAndOccurrenceCountFields(t *testing.T) {
	className := "Item"
	model := modelWithRequest([]ir.FieldNode{
		{
			OriginalName: "item", CamelCaseName: strp("item"), IsArray: true, ClassName: &className,
			OccurrenceCount: strp("1..N"),
			Children: []ir.FieldNode{
				{OriginalName: "groupId", IsTransitory: true, GroupID: strp("GRP01")},
				{OriginalName: "occurrenceCount", IsTransitory: true, OccurrenceCount: strp("1..N")},
				{OriginalName: "sku", CamelCaseName: strp("sku"), Length: intp(20), DataType: strp("xs:string")},
			},
		},
	})
	out, err := EmitOutbound(model, testOptions())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `transitory="true"`)
	assert.Contains(t, s, `defaultValue="GRP01"`)
	assert.Contains(t, s, `converter="counterFieldConverter"`)
}

func TestEmitInboundWithEmptyResponseOmitsMessageElement(t *testing.T) {
	model := &ir.MessageModel{Metadata: ir.Metadata{OperationID: strp("createAccount")}}
	out, err := EmitInbound(model, testOptions())
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "<message")
	assert.Contains(t, s, `xmlns="urn:inbound"`)
}

func TestEmitInboundWithResponseRendersMessage(t *testing.T) {
	model := &ir.MessageModel{
		Metadata: ir.Metadata{OperationID: strp("createAccount")},
		Response: ir.FieldGroup{Fields: []ir.FieldNode{
			{OriginalName: "status", CamelCaseName: strp("status"), Length: intp(2), DataType: strp("xs:string")},
		}},
	}
	out, err := EmitInbound(model, testOptions())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `<message forType="com.example.msgspec.createAccountResponse">`)
	assert.Contains(t, s, `name="status"`)
}
