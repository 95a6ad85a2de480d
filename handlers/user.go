package handlers

import (
	"net/http"

	"hoofix/models"
	"hoofix/services/render"
	"hoofix/utils"

	"github.com/gin-gonic/gin"
)

// GetProfileHandler loads everything the profile page shows.
func (h *DashboardHandler) GetProfileHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if err := ctrl.LoadProfilePage(c.Request.Context()); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	store := ctrl.Store()
	profile, _ := store.Profile()
	resp := gin.H{
		"profile":   profile,
		"initials":  ctrl.Identity().Initials(),
		"addresses": store.Addresses(),
		"stats":     store.Stats(),
	}
	if w, ok := store.Wallet(); ok {
		resp["wallet"] = w
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) AddressesFragmentHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	html, err := render.Addresses(ctrl.Store().Addresses())
	renderFragment(c, ctrl, html, err)
}

func (h *DashboardHandler) AddAddressHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var addr models.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.AddAddress(c.Request.Context(), addr); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": ctrl.Store().Addresses()})
}

func (h *DashboardHandler) DeleteAddressHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if err := ctrl.DeleteAddress(c.Request.Context(), c.Param("uid")); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": ctrl.Store().Addresses()})
}

func (h *DashboardHandler) SetDefaultAddressHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if err := ctrl.SetDefaultAddress(c.Request.Context(), c.Param("uid")); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": ctrl.Store().Addresses()})
}

func (h *DashboardHandler) UpdateProfileHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.UpdateProfile(c.Request.Context(), req); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	profile, _ := ctrl.Store().Profile()
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *DashboardHandler) ChangePasswordHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req struct {
		Current string `json:"current_password"`
		New     string `json:"new_password"`
		Confirm string `json:"confirm_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.ChangePassword(c.Request.Context(), req.Current, req.New, req.Confirm); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

func (h *DashboardHandler) UploadAvatarHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	files, err := readUploads(c, "avatar")
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	if len(files) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", "avatar file is required")
		return
	}
	if err := ctrl.UploadAvatar(c.Request.Context(), files[0]); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Avatar updated"})
}

func (h *DashboardHandler) GetPreferencesHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	prefs, err := ctrl.Preferences(c.Request.Context())
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *DashboardHandler) SavePreferencesHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.SavePreferences(c.Request.Context(), prefs); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
