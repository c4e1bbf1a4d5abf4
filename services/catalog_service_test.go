package services

import (
	"context"
	"testing"

	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	catalog := newStubCatalog()
	catalog.addProduct(42)
	svc := NewSizeService(testLogger(), catalog)

	size, err := svc.Create(ctx, &structs.CreateSizeRequest{
		ProductID:      42,
		SizeQuantities: structs.SizeQuantities{S: 3, M: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, size.ProductID)
	require.NotNil(t, catalog.product(42).SizeID)
	assert.Equal(t, size.ID, *catalog.product(42).SizeID)

	got, err := svc.GetByProduct(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 5, got.M)

	updated, err := svc.Update(ctx, size.ID, &structs.SizeQuantities{XL: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.M)
	assert.Equal(t, 1, updated.XL)
	assert.Equal(t, 42, updated.ProductID)
}

func TestSizeService_Errors(t *testing.T) {
	ctx := context.Background()
	catalog := newStubCatalog()
	svc := NewSizeService(testLogger(), catalog)

	_, err := svc.Create(ctx, &structs.CreateSizeRequest{ProductID: 7})
	assert.ErrorIs(t, err, lib.ErrNotFound)
	_, err = svc.GetByProduct(ctx, 7)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	catalog.addProduct(7)
	_, err = svc.Create(ctx, &structs.CreateSizeRequest{ProductID: 7, SizeQuantities: structs.SizeQuantities{L: -1}})
	assert.ErrorIs(t, err, lib.ErrBadRequest)

	_, err = svc.Update(ctx, 9999, &structs.SizeQuantities{})
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestProductService_CreateWithPrimaryImage(t *testing.T) {
	ctx := context.Background()
	catalog := newStubCatalog()
	images := NewImageService(testLogger(), catalog, &stubBlobs{})
	products := NewProductService(testLogger(), catalog)

	img, err := images.Create(ctx, nil, pngBytes, "front.png", nil)
	require.NoError(t, err)

	product, err := products.Create(ctx, &structs.CreateProductRequest{
		Name:           "  Sunflowers  ",
		Price:          1999,
		PrimaryImageID: &img.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunflowers", product.Name)
	require.NotNil(t, product.PrimaryImageID)
	assert.Equal(t, img.ID, *product.PrimaryImageID)

	stored := catalog.image(img.ID)
	assert.Equal(t, product.ID, *stored.ProductID)
	assert.Equal(t, 1, *stored.Position)

	// an image can only be claimed once
	_, err = products.Create(ctx, &structs.CreateProductRequest{Name: "Roses", PrimaryImageID: &img.ID})
	assert.ErrorIs(t, err, lib.ErrBadRequest)

	all, err := products.List(ctx, structs.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	catalog := newStubCatalog()
	catalog.addProduct(42)
	products := NewProductService(testLogger(), catalog)

	var price int64 = 500
	updated, err := products.Update(ctx, 42, &structs.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(500), updated.Price)
	assert.Equal(t, "product 42", updated.Name)

	_, err = products.Update(ctx, 42, &structs.UpdateProductRequest{Name: strPtr("   ")})
	assert.ErrorIs(t, err, lib.ErrBadRequest)

	_, err = products.Create(ctx, &structs.CreateProductRequest{Name: ""})
	assert.ErrorIs(t, err, lib.ErrBadRequest)

	require.NoError(t, products.Delete(ctx, 42))
	_, err = products.Get(ctx, 42)
	assert.ErrorIs(t, err, lib.ErrNotFound)
	assert.ErrorIs(t, products.Delete(ctx, 42), lib.ErrNotFound)
}
