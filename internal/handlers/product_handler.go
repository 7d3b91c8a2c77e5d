package handlers

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/Poojan2107/Product-Nexus/internal/export"
	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/Poojan2107/Product-Nexus/internal/services"
	"github.com/gofiber/fiber/v2"
)

// parseListParams reads the listing query string. Bad numbers fall back to
// defaults the same way the frontend would send them.
func parseListParams(c *fiber.Ctx) services.ProductListParams {
	p := services.ProductListParams{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
		Search: c.Query("search"),
		SortBy: c.Query("sortBy", "name"),
	}
	if v := c.Query("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.MinPrice = &f
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.MaxPrice = &f
		}
	}
	return p
}

func ListProductsHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	result, err := services.ListProducts(c.Context(), userID, parseListParams(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

func GetProductHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	product, err := services.GetProduct(c.Context(), c.Params("id"), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// readImage pulls the optional uploaded image out of a multipart request.
func readImage(c *fiber.Ctx) (*models.ImageUpload, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, nil // no image attached
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &models.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

func CreateProductHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var input models.ProductInput
	var image *models.ImageUpload

	if isMultipart(c) {
		price, err := strconv.ParseFloat(c.FormValue("price"), 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Price must be a number"})
		}
		input = models.ProductInput{
			Name:        c.FormValue("name"),
			Description: c.FormValue("description"),
			Price:       price,
			Category:    c.FormValue("category"),
			Subcategory: c.FormValue("subcategory"),
			Image:       c.FormValue("image"),
		}
		image, err = readImage(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Failed to read image"})
		}
	} else if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	product, err := services.CreateProduct(c.Context(), userID, input, image)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func UpdateProductHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var upd models.ProductUpdate
	var image *models.ImageUpload

	if isMultipart(c) {
		formPtr := func(key string) *string {
			if v := c.FormValue(key); v != "" {
				return &v
			}
			return nil
		}
		upd = models.ProductUpdate{
			Name:        formPtr("name"),
			Description: formPtr("description"),
			Category:    formPtr("category"),
			Subcategory: formPtr("subcategory"),
			Image:       formPtr("image"),
		}
		if v := c.FormValue("price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Price must be a number"})
			}
			upd.Price = &price
		}
		var err error
		image, err = readImage(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Failed to read image"})
		}
	} else if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	product, err := services.UpdateProduct(c.Context(), c.Params("id"), userID, upd, image)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func DeleteProductHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := services.DeleteProduct(c.Context(), c.Params("id"), userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product removed"})
}

// ExportProductsHandler streams the caller's products as a spreadsheet.
func ExportProductsHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	products, err := services.ListAllProducts(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	if err := export.ProductsXLSX(&buf, products); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to build spreadsheet"})
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename=products.xlsx`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}
