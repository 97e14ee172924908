package handler

import (
	"errors"
	"net/http"
	"strconv"

	"finance-tracker/internal/database"
	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler manages the current user's categories.
type CategoryHandler struct {
	DB  *gorm.DB
	Log *logger.Logger
}

func NewCategoryHandler(db *gorm.DB, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		DB:  db,
		Log: log.WithComponent("category"),
	}
}

type categoryRow struct {
	models.Category
	ExpenseCount int64
}

func (h *CategoryHandler) List(c *gin.Context) {
	userID := currentUserID(c)

	var rows []categoryRow
	if err := h.DB.Model(&models.Category{}).
		Select("categories.*, COUNT(expenses.id) AS expense_count").
		Joins("LEFT JOIN expenses ON expenses.category_id = categories.id").
		Where("categories.user_id = ?", userID).
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&rows).Error; err != nil {
		serverError(c, h.Log, "list categories", err)
		return
	}

	render(c, http.StatusOK, "category_list.html", gin.H{
		"title":      "Categories",
		"categories": rows,
	})
}

func (h *CategoryHandler) owned(c *gin.Context) (*models.Category, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var cat models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, currentUserID(c)).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// nameTaken reports whether the user already has a category called name,
// ignoring case and the category being edited.
func (h *CategoryHandler) nameTaken(userID uint, name string, exceptID uint) (bool, error) {
	var n int64
	err := h.DB.Model(&models.Category{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?) AND id <> ?", userID, name, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (h *CategoryHandler) renderForm(c *gin.Context, form categoryForm, errs FormErrors, editing *models.Category) {
	title, action := "Add category", "/category/add/"
	if editing != nil {
		title = "Rename category"
		action = "/category/edit/" + strconv.FormatUint(uint64(editing.ID), 10) + "/"
	}
	render(c, http.StatusOK, "category_form.html", gin.H{
		"title":  title,
		"action": action,
		"form":   form,
		"errors": errs,
	})
}

func (h *CategoryHandler) AddForm(c *gin.Context) {
	h.renderForm(c, categoryForm{}, FormErrors{}, nil)
}

func (h *CategoryHandler) Add(c *gin.Context) {
	userID := currentUserID(c)

	var form categoryForm
	_ = c.ShouldBind(&form)
	errs := form.validate()
	if !errs.Any() {
		taken, err := h.nameTaken(userID, form.Name, 0)
		if err != nil {
			serverError(c, h.Log, "check category name", err)
			return
		}
		if taken {
			errs.Add("name", errors.New("you already have a category with this name"))
		}
	}
	if errs.Any() {
		h.renderForm(c, form, errs, nil)
		return
	}

	cat := models.Category{UserID: userID, Name: form.Name}
	if err := h.DB.Create(&cat).Error; err != nil {
		serverError(c, h.Log, "create category", err)
		return
	}
	c.Redirect(http.StatusFound, "/category/")
}

func (h *CategoryHandler) EditForm(c *gin.Context) {
	cat, err := h.owned(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c)
			return
		}
		serverError(c, h.Log, "load category", err)
		return
	}
	h.renderForm(c, categoryForm{Name: cat.Name}, FormErrors{}, cat)
}

func (h *CategoryHandler) Edit(c *gin.Context) {
	cat, err := h.owned(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c)
			return
		}
		serverError(c, h.Log, "load category", err)
		return
	}

	var form categoryForm
	_ = c.ShouldBind(&form)
	errs := form.validate()
	if !errs.Any() {
		taken, err := h.nameTaken(cat.UserID, form.Name, cat.ID)
		if err != nil {
			serverError(c, h.Log, "check category name", err)
			return
		}
		if taken {
			errs.Add("name", errors.New("you already have a category with this name"))
		}
	}
	if errs.Any() {
		h.renderForm(c, form, errs, cat)
		return
	}

	if err := h.DB.Model(cat).Update("name", form.Name).Error; err != nil {
		serverError(c, h.Log, "rename category", err)
		return
	}
	c.Redirect(http.StatusFound, "/category/")
}

// Delete removes the category; its expenses stay, uncategorized.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		NotFound(c)
		return
	}
	userID := currentUserID(c)
	if err := database.DeleteCategory(h.DB, userID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c)
			return
		}
		serverError(c, h.Log, "delete category", err)
		return
	}
	h.Log.Info("category deleted", "user_id", userID, "category_id", id)
	c.Redirect(http.StatusFound, "/category/")
}
