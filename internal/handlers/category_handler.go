package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"gadget-server/internal/managers"
	"gadget-server/internal/middleware"
	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
	"gadget-server/internal/utils"
)

type CategoryHdl interface {
	CreateCategory(c *gin.Context)
	GetCategories(c *gin.Context)
	GetCategory(c *gin.Context)
	UpdateCategory(c *gin.Context)
	DeleteCategory(c *gin.Context)
}

type CategoryHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewCategoryHandler(databaseManager managers.DatabaseMgr) CategoryHdl {
	return &CategoryHandler{
		DatabaseManager: databaseManager,
	}
}

func (handler *CategoryHandler) CreateCategory(c *gin.Context) {
	categoryRequest := middleware.Payload[schemas.CategoryRequest](c)

	category := &schemas.Category{Title: categoryRequest.Title}
	if err := handler.DatabaseManager.Categories().Create(c.Request.Context(), category); err != nil {
		if errors.Is(err, stores.ErrDuplicate) {
			utils.WriteAndLogError(c, schemas.CategoryAlreadyExists, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.CategoryDTO{
		Message:  "Category created successfully",
		Category: category,
	}, http.StatusCreated)
}

func (handler *CategoryHandler) GetCategories(c *gin.Context) {
	categories, count, err := handler.DatabaseManager.Categories().FindAll(c.Request.Context())
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, err)
		return
	}
	if len(categories) == 0 {
		utils.WriteAndLogError(c, schemas.NoCategoriesFound, nil)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.CategoriesDTO{
		Message:    "Categories fetched successfully",
		Count:      count,
		Categories: categories,
	}, http.StatusOK)
}

func (handler *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := handler.DatabaseManager.Categories().FindByID(c.Request.Context(), c.Param(utils.IdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.CategoryNotFound), err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.CategoryDTO{
		Message:  "Category fetched successfully",
		Category: category,
	}, http.StatusOK)
}

func (handler *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryRequest := middleware.Payload[schemas.CategoryRequest](c)

	category, err := handler.DatabaseManager.Categories().Update(c.Request.Context(), c.Param(utils.IdParamKey), categoryRequest.Title)
	if err != nil {
		if errors.Is(err, stores.ErrDuplicate) {
			utils.WriteAndLogError(c, schemas.CategoryAlreadyExists, err)
			return
		}
		utils.WriteAndLogError(c, storeError(err, schemas.CategoryNotFound), err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.CategoryDTO{
		Message:  "Category updated successfully",
		Category: category,
	}, http.StatusOK)
}

func (handler *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := handler.DatabaseManager.Categories().Delete(c.Request.Context(), c.Param(utils.IdParamKey)); err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.CategoryNotFound), err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Category deleted successfully"}, http.StatusOK)
}
