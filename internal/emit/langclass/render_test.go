package langclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderRecordWithAccessorsAndBuilder(t *testing.T) {
	spec := ClassSpec{
		Name:          "createAccountRequest",
		OriginalLabel: "Request",
		Kind:          KindRecord,
		Fields: []Field{
			{OriginalName: "accountId", CamelName: "accountId", JavaType: "String", Length: intp(20)},
		},
	}
	src := render(spec, Options{Package: "com.example"})

	assert.Contains(t, src, "package com.example;")
	assert.Contains(t, src, "public class createAccountRequest {")
	assert.Contains(t, src, "private String accountId;")
	assert.Contains(t, src, "public String getAccountId() {")
	assert.Contains(t, src, "public void setAccountId(String accountId) {")
	assert.Contains(t, src, "public static final class Builder {")
	assert.NotContains(t, src, "@GeneratedField")
}

func TestRenderRecordWithAnnotationsSkipsAccessorsAndBuilder(t *testing.T) {
	spec := ClassSpec{
		Name:          "createAccountRequest",
		OriginalLabel: "Request",
		Kind:          KindRecord,
		Fields: []Field{
			{OriginalName: "accountId", CamelName: "accountId", JavaType: "String"},
		},
	}
	src := render(spec, Options{Package: "com.example", UseAnnotations: true})

	assert.Contains(t, src, `@GeneratedField(originalName = "accountId")`)
	assert.NotContains(t, src, "public static final class Builder {")
	assert.NotContains(t, src, "getAccountId")
}

func TestRenderRecordListFieldUsesArrayListInitializer(t *testing.T) {
	spec := ClassSpec{
		Name: "listItemsRequest",
		Kind: KindRecord,
		Fields: []Field{
			{OriginalName: "item", CamelName: "item", JavaType: "Item", IsList: true},
		},
	}
	src := render(spec, Options{Package: "com.example"})

	assert.Contains(t, src, "private java.util.List<Item> item = new java.util.ArrayList<>();")
	assert.Contains(t, src, "import java.util.ArrayList;")
	assert.Contains(t, src, "import java.util.List;")
}

func TestRenderEnumProducesConstantsAndHelpers(t *testing.T) {
	spec := ClassSpec{
		Name: "StatusCode",
		Kind: KindEnum,
		EnumConstants: []EnumConstant{
			{ConstName: "A", Code: "A", Description: "A"},
			{ConstName: "B", Code: "B", Description: "B"},
		},
	}
	src := render(spec, Options{Package: "com.example"})

	assert.Contains(t, src, "public enum StatusCode {")
	assert.Contains(t, src, `A("A", "A"),`)
	assert.Contains(t, src, `B("B", "B");`)
	assert.Contains(t, src, "public static StatusCode fromCode(String code) {")
	assert.Contains(t, src, "public static boolean isValid(String code) {")
}
