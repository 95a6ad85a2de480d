package dashboard

import (
	"context"

	"hoofix/models"
	"hoofix/services/api"

	"golang.org/x/sync/errgroup"
)

// LoadProfilePage fetches everything the profile page shows.
func (c *Controller) LoadProfilePage(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.ReloadProfile(ctx) })
	g.Go(func() error { return c.ReloadAddresses(ctx) })
	g.Go(func() error { return c.ReloadWallet(ctx) })
	g.Go(func() error { return c.ReloadBookings(ctx) })
	return g.Wait()
}

func (c *Controller) ReloadAddresses(ctx context.Context) error {
	addrs, err := c.api.Addresses(ctx)
	if err != nil {
		if api.KindOf(err) == api.NotFound {
			c.store.ReplaceAddresses(nil)
		}
		return c.handle(err, "Error loading addresses", true)
	}
	c.store.ReplaceAddresses(addrs)
	return nil
}

func (c *Controller) AddAddress(ctx context.Context, addr models.Address) error {
	if err := c.api.AddAddress(ctx, addr); err != nil {
		return c.handle(err, "Failed to add address", false)
	}
	c.notify(models.LevelSuccess, "Address added")
	return c.ReloadAddresses(ctx)
}

func (c *Controller) DeleteAddress(ctx context.Context, uid string) error {
	if err := c.api.DeleteAddress(ctx, uid); err != nil {
		return c.handle(err, "Failed to delete address", false)
	}
	c.notify(models.LevelSuccess, "Address deleted")
	return c.ReloadAddresses(ctx)
}

func (c *Controller) SetDefaultAddress(ctx context.Context, uid string) error {
	if err := c.api.SetDefaultAddress(ctx, uid); err != nil {
		return c.handle(err, "Failed to update default address", false)
	}
	c.notify(models.LevelSuccess, "Default address updated")
	return c.ReloadAddresses(ctx)
}

func (c *Controller) ApplyReferral(ctx context.Context, code string) error {
	if err := c.api.ApplyReferral(ctx, code); err != nil {
		return c.handle(err, "Failed to apply referral code", false)
	}
	c.notify(models.LevelSuccess, "Referral code applied")
	return c.ReloadWallet(ctx)
}

func (c *Controller) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	if err := c.api.UpdateProfile(ctx, update); err != nil {
		return c.handle(err, "Failed to update profile", false)
	}
	c.notify(models.LevelSuccess, "Profile updated successfully")
	return c.ReloadProfile(ctx)
}

func (c *Controller) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if err := c.api.ChangePassword(ctx, current, next, confirm); err != nil {
		return c.handle(err, "Failed to change password", false)
	}
	c.notify(models.LevelSuccess, "Password changed successfully")
	return nil
}

func (c *Controller) UploadAvatar(ctx context.Context, avatar models.FileUpload) error {
	if err := c.api.UploadAvatar(ctx, avatar); err != nil {
		return c.handle(err, "Failed to upload avatar", false)
	}
	c.notify(models.LevelSuccess, "Avatar updated")
	return c.ReloadProfile(ctx)
}

func (c *Controller) Preferences(ctx context.Context) (models.Preferences, error) {
	prefs, err := c.api.Preferences(ctx)
	if err != nil {
		return models.Preferences{}, c.handle(err, "Failed to load preferences", true)
	}
	return prefs, nil
}

func (c *Controller) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	if err := c.api.SavePreferences(ctx, prefs); err != nil {
		return c.handle(err, "Failed to save preferences", false)
	}
	c.notify(models.LevelSuccess, "Preferences saved")
	return nil
}
