package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gadget-server/internal/managers"
	"gadget-server/internal/middleware"
	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
	"gadget-server/internal/utils"
)

// MaxProductImages is the number of images a product can carry.
const MaxProductImages = 4

type ProductHdl interface {
	CreateProduct(c *gin.Context)
	GetProduct(c *gin.Context)
	GetProducts(c *gin.Context)
	UpdateProduct(c *gin.Context)
	DeleteProduct(c *gin.Context)
}

type ProductHandler struct {
	DatabaseManager managers.DatabaseMgr
	MediaManager    managers.MediaMgr
}

func NewProductHandler(databaseManager managers.DatabaseMgr, mediaManager managers.MediaMgr) ProductHdl {
	return &ProductHandler{
		DatabaseManager: databaseManager,
		MediaManager:    mediaManager,
	}
}

func (handler *ProductHandler) CreateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	productRequest := middleware.Payload[schemas.CreateProductRequest](c)

	files := formImages(c)
	if len(files) == 0 {
		utils.WriteAndLogError(c, schemas.ImagesRequired, nil)
		return
	}
	if len(files) > MaxProductImages {
		utils.WriteAndLogError(c, schemas.TooManyImages, nil)
		return
	}

	category, err := handler.DatabaseManager.Categories().FindByID(ctx, productRequest.Category)
	if err != nil {
		utils.WriteAndLogError(c, categoryLookupError(err), err)
		return
	}

	images, err := handler.MediaManager.Upload(ctx, files)
	if err != nil {
		utils.WriteAndLogError(c, mediaError(err, schemas.ImageUploadFailed), err)
		return
	}

	product := &schemas.Product{
		Name:            productRequest.Name,
		Description:     productRequest.Description,
		Price:           productRequest.Price,
		DiscountedPrice: productRequest.DiscountedPrice,
		CategoryID:      category.ID,
		Quantity:        productRequest.Quantity,
		InStock:         productRequest.Quantity > 0,
		Images:          images,
		IsFeatured:      productRequest.IsFeatured,
	}
	if err = handler.DatabaseManager.Products().Create(ctx, product); err != nil {
		handler.discardImages(ctx, images)
		if errors.Is(err, stores.ErrDuplicate) {
			utils.WriteAndLogError(c, schemas.ProductAlreadyExists, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, err)
		return
	}
	product.Category = category

	utils.WriteAndLogResponse(c, &schemas.ProductDTO{
		Message: "Product created successfully",
		Data:    product,
	}, http.StatusCreated)
}

func (handler *ProductHandler) GetProduct(c *gin.Context) {
	product, err := handler.DatabaseManager.Products().FindByID(c.Request.Context(), c.Param(utils.IdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.ProductNotFound), err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.SingleProductDTO{
		Message: "Product fetched successfully",
		Product: product,
	}, http.StatusOK)
}

func (handler *ProductHandler) GetProducts(c *gin.Context) {
	page, limit := utils.ParsePaginationParams(c)
	query := stores.ProductQuery{
		CategoryID: c.Query(utils.CategoryParamKey),
		Keyword:    c.Query(utils.KeywordParamKey),
		Sort:       sortOrder(c.Query(utils.SortParamKey)),
		Page:       page,
		Limit:      limit,
	}
	if query.CategoryID != "" && !handler.DatabaseManager.ValidID(query.CategoryID) {
		utils.WriteAndLogError(c, schemas.InvalidID, errors.New("invalid category id "+query.CategoryID))
		return
	}

	products, totalCount, err := handler.DatabaseManager.Products().List(c.Request.Context(), query)
	if err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.NoProductsFound), err)
		return
	}
	if len(products) == 0 {
		utils.WriteAndLogError(c, schemas.NoProductsFound, nil)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.ProductListDTO{
		Message:    "Products fetched successfully",
		Products:   products,
		Page:       page,
		Limit:      limit,
		TotalPages: utils.TotalPages(totalCount, limit),
		TotalCount: totalCount,
	}, http.StatusOK)
}

func (handler *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	productId := c.Param(utils.IdParamKey)
	updateRequest := middleware.Payload[schemas.UpdateProductRequest](c)

	files := formImages(c)
	if len(files) > MaxProductImages {
		utils.WriteAndLogError(c, schemas.TooManyImages, nil)
		return
	}

	product, err := handler.DatabaseManager.Products().FindByID(ctx, productId)
	if err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.ProductNotFound), err)
		return
	}

	if updateRequest.Category != nil {
		if _, err = handler.DatabaseManager.Categories().FindByID(ctx, *updateRequest.Category); err != nil {
			utils.WriteAndLogError(c, categoryLookupError(err), err)
			return
		}
	}

	update := stores.ProductUpdate{
		Name:            updateRequest.Name,
		Description:     updateRequest.Description,
		Price:           updateRequest.Price,
		DiscountedPrice: updateRequest.DiscountedPrice,
		Quantity:        updateRequest.Quantity,
		CategoryID:      updateRequest.Category,
		InStock:         updateRequest.InStock,
		IsFeatured:      updateRequest.IsFeatured,
	}
	if update.Quantity != nil && update.InStock == nil {
		inStock := *update.Quantity > 0
		update.InStock = &inStock
	}

	if len(files) > 0 {
		if err = handler.destroyImages(ctx, product.Images); err != nil {
			utils.WriteAndLogError(c, schemas.ImageDeleteFailed, err)
			return
		}
		if update.Images, err = handler.MediaManager.Upload(ctx, files); err != nil {
			utils.WriteAndLogError(c, mediaError(err, schemas.ImageUploadFailed), err)
			return
		}
	}

	updated, err := handler.DatabaseManager.Products().Update(ctx, productId, update)
	if err != nil {
		handler.discardImages(ctx, update.Images)
		if errors.Is(err, stores.ErrDuplicate) {
			utils.WriteAndLogError(c, schemas.ProductAlreadyExists, err)
			return
		}
		utils.WriteAndLogError(c, storeError(err, schemas.ProductNotFound), err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.ProductDTO{
		Message: "Product updated successfully",
		Data:    updated,
	}, http.StatusOK)
}

func (handler *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()

	product, err := handler.DatabaseManager.Products().Delete(ctx, c.Param(utils.IdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.ProductNotFound), err)
		return
	}

	if err = handler.destroyImages(ctx, product.Images); err != nil {
		utils.WriteAndLogError(c, schemas.ImageDeleteFailed, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Product deleted successfully"}, http.StatusOK)
}

// destroyImages removes every image from the media host, one call per image.
func (handler *ProductHandler) destroyImages(ctx context.Context, images []schemas.Image) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, image := range images {
		g.Go(func() error {
			return handler.MediaManager.Destroy(gctx, image.ImageID)
		})
	}
	return g.Wait()
}

// discardImages drops images uploaded for a write that did not go through.
func (handler *ProductHandler) discardImages(ctx context.Context, images []schemas.Image) {
	if len(images) == 0 {
		return
	}
	if err := handler.destroyImages(context.WithoutCancel(ctx), images); err != nil {
		log.Warn("Error discarding uploaded images: ", err)
	}
}

func formImages(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File[utils.ImagesFormKey]
}

func categoryLookupError(err error) *schemas.CustomError {
	if errors.Is(err, stores.ErrInvalidID) {
		return schemas.CategoryNotFound
	}
	return storeError(err, schemas.CategoryNotFound)
}

// sortOrder maps the sort query parameter, including its short aliases, onto a store sort order.
func sortOrder(sort string) string {
	switch sort {
	case "high", stores.SortPriceDesc:
		return stores.SortPriceDesc
	case "low", stores.SortPriceAsc:
		return stores.SortPriceAsc
	case "old", stores.SortOldest:
		return stores.SortOldest
	case stores.SortAlphabetical:
		return stores.SortAlphabetical
	default:
		return stores.SortNewest
	}
}
